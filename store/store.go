// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/qtlportal/server/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrEmptyID  = errors.New("id is empty")
)

// Store wraps the relational tables. Every write is its own statement and
// commits on its own; nothing spans more than one write.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const (
	studyColumns = `study_id, study_name, description, team_name, lab_name, submitter_name, submitter_email`

	datasetColumns = `dataset_id, dataset_name, assay, description, pi_full_name, pi_email,
		first_contributor, first_contributor_email, other_contributors, support_grants,
		other_funding_source, publication_doi, publication_pmid, n_samples,
		brain_super_region, brain_region, sample_info, seurat, study_id`

	sampleColumns = `sample_id, dataset_id, subject_id, sample_name, brain_region, condition, tissue`

	dataColumns = `data_id, dataset_id, sample_id, protocol_id, data_type, file_path`
)

// InsertStudy inserts the study unless a row with the same study_id exists,
// in which case the existing row is returned unchanged.
func (s *Store) InsertStudy(ctx context.Context, study models.Study) (*models.Study, error) {
	existing, err := s.GetStudyByID(ctx, study.StudyID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO study (`+studyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, study.StudyID, study.StudyName, study.Description, study.TeamName,
		study.LabName, study.SubmitterName, study.SubmitterEmail)
	if err != nil {
		return nil, fmt.Errorf("insert study %s: %w", study.StudyID, err)
	}
	return &study, nil
}

func (s *Store) InsertDataset(ctx context.Context, d models.Dataset) (*models.Dataset, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dataset (`+datasetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, d.DatasetID, d.DatasetName, d.Assay, d.Description, d.PIFullName, d.PIEmail,
		d.FirstContributor, d.FirstContributorEmail, d.OtherContributors, d.SupportGrants,
		d.OtherFundingSource, d.PublicationDOI, d.PublicationPMID, nullable(d.NSamples),
		d.BrainSuperRegion, d.BrainRegion, d.SampleInfo, d.Seurat, d.StudyID)
	if err != nil {
		return nil, fmt.Errorf("insert dataset %s: %w", d.DatasetID, err)
	}
	return &d, nil
}

// InsertData assigns a fresh UUID when the record has none.
func (s *Store) InsertData(ctx context.Context, d models.Data) (*models.Data, error) {
	if d.DataID == uuid.Nil {
		d.DataID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO data (`+dataColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.DataID, d.DatasetID, d.SampleID, d.ProtocolID, d.DataType, d.FilePath)
	if err != nil {
		return nil, fmt.Errorf("insert data %s: %w", d.DataID, err)
	}
	return &d, nil
}

func (s *Store) InsertSample(ctx context.Context, sm models.Sample) (*models.Sample, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sample (`+sampleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, sm.SampleID, sm.DatasetID, sm.SubjectID, sm.SampleName, sm.BrainRegion, sm.Condition, sm.Tissue)
	if err != nil {
		return nil, fmt.Errorf("insert sample %s: %w", sm.SampleID, err)
	}
	return &sm, nil
}

func (s *Store) InsertProtocol(ctx context.Context, p models.Protocol) (*models.Protocol, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO protocol (protocol_id, protocol_name, version, github_url,
			sample_collection_summary, cell_extraction_summary, lib_prep_summary,
			data_processing_summary, protocols_io_doi, other_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ProtocolID, p.ProtocolName, p.Version, p.GithubURL, p.SampleCollectionSummary,
		p.CellExtractionSummary, p.LibPrepSummary, p.DataProcessingSummary, p.ProtocolsIODOI, p.OtherReference)
	if err != nil {
		return nil, fmt.Errorf("insert protocol %s: %w", p.ProtocolID, err)
	}
	return &p, nil
}

func (s *Store) InsertSubject(ctx context.Context, sub models.Subject) (*models.Subject, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subject (subject_id, sex, age, race, diagnosis)
		VALUES ($1, $2, $3, $4, $5)
	`, sub.SubjectID, sub.Sex, nullable(sub.Age), sub.Race, sub.Diagnosis)
	if err != nil {
		return nil, fmt.Errorf("insert subject %s: %w", sub.SubjectID, err)
	}
	return &sub, nil
}

func (s *Store) InsertClinpath(ctx context.Context, c models.Clinpath) (*models.Clinpath, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clinpath (clinpath_id, subject_id, braak_stage, cerad_score, apoe_genotype, pmi)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ClinpathID, c.SubjectID, c.BraakStage, c.CeradScore, c.APOEGenotype, nullable(c.PMI))
	if err != nil {
		return nil, fmt.Errorf("insert clinpath %s: %w", c.ClinpathID, err)
	}
	return &c, nil
}

// Point lookups

func (s *Store) GetStudyByID(ctx context.Context, id string) (*models.Study, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+studyColumns+` FROM study WHERE study_id = $1`, id)
	study, err := scanStudy(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("study %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query study %s: %w", id, err)
	}
	return study, nil
}

func (s *Store) GetDatasetByID(ctx context.Context, id string) (*models.Dataset, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+datasetColumns+` FROM dataset WHERE dataset_id = $1`, id)
	d, err := scanDataset(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query dataset %s: %w", id, err)
	}
	return d, nil
}

func (s *Store) GetDataByID(ctx context.Context, id uuid.UUID) (*models.Data, error) {
	if id == uuid.Nil {
		return nil, ErrEmptyID
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+dataColumns+` FROM data WHERE data_id = $1`, id)
	d, err := scanData(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("data %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query data %s: %w", id, err)
	}
	return d, nil
}

// Full scans

func (s *Store) GetAllStudies(ctx context.Context) ([]models.Study, error) {
	return queryAll(ctx, s.db, `SELECT `+studyColumns+` FROM study ORDER BY study_id`, nil, scanStudy)
}

func (s *Store) GetAllDatasets(ctx context.Context) ([]models.Dataset, error) {
	return queryAll(ctx, s.db, `SELECT `+datasetColumns+` FROM dataset ORDER BY dataset_id`, nil, scanDataset)
}

func (s *Store) GetAllSamples(ctx context.Context) ([]models.Sample, error) {
	return queryAll(ctx, s.db, `SELECT `+sampleColumns+` FROM sample ORDER BY sample_id`, nil, scanSample)
}

func (s *Store) GetAllData(ctx context.Context) ([]models.Data, error) {
	return queryAll(ctx, s.db, `SELECT `+dataColumns+` FROM data ORDER BY data_id`, nil, scanData)
}

// Attribute filters

// GetSamplesByConditions returns samples whose columns match the given
// values. Unknown column names are ignored.
func (s *Store) GetSamplesByConditions(ctx context.Context, conditions map[string][]string) ([]models.Sample, error) {
	where, args := buildFilter(sampleFilterColumns, conditions)
	return queryAll(ctx, s.db, `SELECT `+sampleColumns+` FROM sample`+where+` ORDER BY sample_id`, args, scanSample)
}

func (s *Store) GetDatasetsByConditions(ctx context.Context, conditions map[string][]string) ([]models.Dataset, error) {
	where, args := buildFilter(datasetFilterColumns, conditions)
	return queryAll(ctx, s.db, `SELECT `+datasetColumns+` FROM dataset`+where+` ORDER BY dataset_id`, args, scanDataset)
}

// nullable turns a nil pointer into SQL NULL and dereferences the rest.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Scanners

type scanner interface {
	Scan(dest ...any) error
}

func scanStudy(row scanner) (*models.Study, error) {
	var st models.Study
	err := row.Scan(&st.StudyID, &st.StudyName, &st.Description, &st.TeamName,
		&st.LabName, &st.SubmitterName, &st.SubmitterEmail)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func scanDataset(row scanner) (*models.Dataset, error) {
	var d models.Dataset
	err := row.Scan(&d.DatasetID, &d.DatasetName, &d.Assay, &d.Description, &d.PIFullName, &d.PIEmail,
		&d.FirstContributor, &d.FirstContributorEmail, &d.OtherContributors, &d.SupportGrants,
		&d.OtherFundingSource, &d.PublicationDOI, &d.PublicationPMID, &d.NSamples,
		&d.BrainSuperRegion, &d.BrainRegion, &d.SampleInfo, &d.Seurat, &d.StudyID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanSample(row scanner) (*models.Sample, error) {
	var sm models.Sample
	err := row.Scan(&sm.SampleID, &sm.DatasetID, &sm.SubjectID, &sm.SampleName,
		&sm.BrainRegion, &sm.Condition, &sm.Tissue)
	if err != nil {
		return nil, err
	}
	return &sm, nil
}

func scanData(row scanner) (*models.Data, error) {
	var d models.Data
	err := row.Scan(&d.DataID, &d.DatasetID, &d.SampleID, &d.ProtocolID, &d.DataType, &d.FilePath)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func queryAll[T any](ctx context.Context, db *sql.DB, query string, args []any, scan func(scanner) (*T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}
