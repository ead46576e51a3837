package models

// Processing status values
const (
	StatusCompleted  = "completed"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
)

// Request types

type SeuratInfo struct {
	Seurat   string `json:"seurat" toml:"seurat_file"`
	DataType string `json:"datatype" toml:"datatype"`
}

type DatasetInfo struct {
	DatasetName           string `json:"dataset_name" toml:"dataset_name"`
	Assay                 string `json:"assay" toml:"assay"`
	Description           string `json:"description,omitempty" toml:"description,omitempty"`
	PIFullName            string `json:"PI_full_name" toml:"PI_full_name"`
	PIEmail               string `json:"PI_email" toml:"PI_email"`
	FirstContributor      string `json:"first_contributor" toml:"first_contributor"`
	FirstContributorEmail string `json:"first_contributor_email" toml:"first_contributor_email"`
	OtherContributors     string `json:"other_contributors,omitempty" toml:"other_contributors,omitempty"`
	SupportGrants         string `json:"support_grants,omitempty" toml:"support_grants,omitempty"`
	OtherFundingSource    string `json:"other_funding_source,omitempty" toml:"other_funding_source,omitempty"`
	PublicationDOI        string `json:"publication_DOI,omitempty" toml:"publication_DOI,omitempty"`
	PublicationPMID       string `json:"publication_PMID,omitempty" toml:"publication_PMID,omitempty"`
	NSamples              *int   `json:"n_samples,omitempty" toml:"n_samples,omitempty"`
	BrainSuperRegion      string `json:"brain_super_region,omitempty" toml:"brain_super_region,omitempty"`
	BrainRegion           string `json:"brain_region,omitempty" toml:"brain_region,omitempty"`
	SampleInfo            string `json:"sample_info,omitempty" toml:"sample_info,omitempty"`
}

type StudyInfo struct {
	StudyName      string `json:"study_name" toml:"study_name"`
	Description    string `json:"description,omitempty" toml:"description,omitempty"`
	TeamName       string `json:"team_name" toml:"team_name"`
	LabName        string `json:"lab_name" toml:"lab_name"`
	SubmitterName  string `json:"submitter_name" toml:"submitter_name"`
	SubmitterEmail string `json:"submitter_email" toml:"submitter_email"`
}

type ProtocolInfo struct {
	ProtocolID              string `json:"protocol_id" toml:"protocol_id"`
	ProtocolName            string `json:"protocol_name" toml:"protocol_name"`
	Version                 string `json:"version,omitempty" toml:"version,omitempty"`
	GithubURL               string `json:"github_url,omitempty" toml:"github_url,omitempty"`
	SampleCollectionSummary string `json:"sample_collection_summary,omitempty" toml:"sample_collection_summary,omitempty"`
	CellExtractionSummary   string `json:"cell_extraction_summary,omitempty" toml:"cell_extraction_summary,omitempty"`
	LibPrepSummary          string `json:"lib_prep_summary,omitempty" toml:"lib_prep_summary,omitempty"`
	DataProcessingSummary   string `json:"data_processing_summary,omitempty" toml:"data_processing_summary,omitempty"`
	ProtocolsIODOI          string `json:"protocols_io_DOI,omitempty" toml:"protocols_io_DOI,omitempty"`
	OtherReference          string `json:"other_reference,omitempty" toml:"other_reference,omitempty"`
}

type SubmissionData struct {
	SeuratInfo   SeuratInfo   `json:"seurat_info"`
	DatasetInfo  DatasetInfo  `json:"dataset_info"`
	StudyInfo    StudyInfo    `json:"study_info"`
	ProtocolInfo ProtocolInfo `json:"protocol_info"`
}

type MetaFeatureData struct {
	Dataset            string   `json:"dataset"`
	SelectedFeatures   []string `json:"selected_features"`
	SampleIDColumn     string   `json:"sample_id_column"`
	MajorClusterColumn string   `json:"major_cluster_column"`
	ConditionColumn    string   `json:"condition_column"`
}

// Response types

type HelloResponse struct {
	Message string `json:"Message"`
}

type NameCheckResponse struct {
	IsUnique bool `json:"isUnique"`
}

// MessageResponse is the {message, success} shape the dataset manager UI reads.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	JobID   string `json:"jobId,omitempty"`
	// Error repeats Message on rejected requests; the frontend reads it from 4xx bodies.
	Error string `json:"error,omitempty"`
}

type ProcessingStatus struct {
	Status string `json:"status"`
	Log    string `json:"log"`
}

// Dataset configuration document (dataset_info.toml)

type MetaFeatures struct {
	SelectedFeatures   []string `toml:"selected_features" json:"selected_features"`
	SampleIDColumn     string   `toml:"sample_id_column" json:"sample_id_column"`
	MajorClusterColumn string   `toml:"major_cluster_column" json:"major_cluster_column"`
	ConditionColumn    string   `toml:"condition_column" json:"condition_column"`
}

type DatasetConfig struct {
	Seurat       SeuratInfo    `toml:"seurat" json:"seurat"`
	Dataset      DatasetInfo   `toml:"dataset" json:"dataset"`
	Study        StudyInfo     `toml:"study" json:"study"`
	Protocol     ProtocolInfo  `toml:"protocol" json:"protocol"`
	MetaFeatures *MetaFeatures `toml:"meta_features,omitempty" json:"meta_features,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
