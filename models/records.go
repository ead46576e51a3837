package models

import "github.com/google/uuid"

// Domain types, one per table

type Study struct {
	StudyID        string `json:"study_id"`
	StudyName      string `json:"study_name"`
	Description    string `json:"description"`
	TeamName       string `json:"team_name"`
	LabName        string `json:"lab_name"`
	SubmitterName  string `json:"submitter_name"`
	SubmitterEmail string `json:"submitter_email"`
}

type Dataset struct {
	DatasetID             string `json:"dataset_id"`
	DatasetName           string `json:"dataset_name"`
	Assay                 string `json:"assay"`
	Description           string `json:"description"`
	PIFullName            string `json:"PI_full_name"`
	PIEmail               string `json:"PI_email"`
	FirstContributor      string `json:"first_contributor"`
	FirstContributorEmail string `json:"first_contributor_email"`
	OtherContributors     string `json:"other_contributors"`
	SupportGrants         string `json:"support_grants"`
	OtherFundingSource    string `json:"other_funding_source"`
	PublicationDOI        string `json:"publication_DOI"`
	PublicationPMID       string `json:"publication_PMID"`
	NSamples              *int   `json:"n_samples"`
	BrainSuperRegion      string `json:"brain_super_region"`
	BrainRegion           string `json:"brain_region"`
	SampleInfo            string `json:"sample_info"`
	Seurat                string `json:"seurat"`
	StudyID               string `json:"study_id"`
}

type Protocol struct {
	ProtocolID              string `json:"protocol_id"`
	ProtocolName            string `json:"protocol_name"`
	Version                 string `json:"version"`
	GithubURL               string `json:"github_url"`
	SampleCollectionSummary string `json:"sample_collection_summary"`
	CellExtractionSummary   string `json:"cell_extraction_summary"`
	LibPrepSummary          string `json:"lib_prep_summary"`
	DataProcessingSummary   string `json:"data_processing_summary"`
	ProtocolsIODOI          string `json:"protocols_io_DOI"`
	OtherReference          string `json:"other_reference"`
}

type Subject struct {
	SubjectID string `json:"subject_id"`
	Sex       string `json:"sex"`
	Age       *int   `json:"age"`
	Race      string `json:"race"`
	Diagnosis string `json:"diagnosis"`
}

type Clinpath struct {
	ClinpathID   string   `json:"clinpath_id"`
	SubjectID    string   `json:"subject_id"`
	BraakStage   string   `json:"braak_stage"`
	CeradScore   string   `json:"cerad_score"`
	APOEGenotype string   `json:"apoe_genotype"`
	PMI          *float64 `json:"pmi"`
}

type Sample struct {
	SampleID    string `json:"sample_id"`
	DatasetID   string `json:"dataset_id"`
	SubjectID   string `json:"subject_id"`
	SampleName  string `json:"sample_name"`
	BrainRegion string `json:"brain_region"`
	Condition   string `json:"condition"`
	Tissue      string `json:"tissue"`
}

type Data struct {
	DataID     uuid.UUID `json:"data_id"`
	DatasetID  string    `json:"dataset_id"`
	SampleID   string    `json:"sample_id"`
	ProtocolID string    `json:"protocol_id"`
	DataType   string    `json:"data_type"`
	FilePath   string    `json:"file_path"`
}

// StudyFromInfo derives a Study record; its id is the study name.
func StudyFromInfo(info StudyInfo) Study {
	return Study{
		StudyID:        info.StudyName,
		StudyName:      info.StudyName,
		Description:    info.Description,
		TeamName:       info.TeamName,
		LabName:        info.LabName,
		SubmitterName:  info.SubmitterName,
		SubmitterEmail: info.SubmitterEmail,
	}
}

// DatasetFromInfo derives a Dataset record keyed by its name and linked to
// the owning study and the source Seurat file.
func DatasetFromInfo(info DatasetInfo, studyID, seurat string) Dataset {
	return Dataset{
		DatasetID:             info.DatasetName,
		DatasetName:           info.DatasetName,
		Assay:                 info.Assay,
		Description:           info.Description,
		PIFullName:            info.PIFullName,
		PIEmail:               info.PIEmail,
		FirstContributor:      info.FirstContributor,
		FirstContributorEmail: info.FirstContributorEmail,
		OtherContributors:     info.OtherContributors,
		SupportGrants:         info.SupportGrants,
		OtherFundingSource:    info.OtherFundingSource,
		PublicationDOI:        info.PublicationDOI,
		PublicationPMID:       info.PublicationPMID,
		NSamples:              info.NSamples,
		BrainSuperRegion:      info.BrainSuperRegion,
		BrainRegion:           info.BrainRegion,
		SampleInfo:            info.SampleInfo,
		Seurat:                seurat,
		StudyID:               studyID,
	}
}

func ProtocolFromInfo(info ProtocolInfo) Protocol {
	return Protocol(info)
}

// Records derives the Study and Dataset rows described by a config document.
func (c DatasetConfig) Records() (Study, Dataset) {
	study := StudyFromInfo(c.Study)
	return study, DatasetFromInfo(c.Dataset, study.StudyID, c.Seurat.Seurat)
}
