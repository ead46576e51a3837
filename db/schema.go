// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range splitStatements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// splitStatements breaks a DDL script on trailing semicolons and drops
// comment lines. Not every driver accepts several statements per Exec.
func splitStatements(ddl string) []string {
	scanner := bufio.NewScanner(strings.NewReader(ddl))
	var stmts []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				stmts = append(stmts, stmt)
			}
			current.Reset()
		}
	}
	if tail := strings.TrimSpace(current.String()); tail != "" {
		stmts = append(stmts, tail)
	}
	return stmts
}

// Column types are kept to the subset SQLite and PostgreSQL agree on.
const schema = `
-- Studies (study_id is derived from study_name)
CREATE TABLE IF NOT EXISTS study (
    study_id TEXT PRIMARY KEY,
    study_name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    team_name TEXT NOT NULL DEFAULT '',
    lab_name TEXT NOT NULL DEFAULT '',
    submitter_name TEXT NOT NULL DEFAULT '',
    submitter_email TEXT NOT NULL DEFAULT ''
);

-- Datasets (dataset_id is the dataset name)
CREATE TABLE IF NOT EXISTS dataset (
    dataset_id TEXT PRIMARY KEY,
    dataset_name TEXT NOT NULL,
    assay TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    pi_full_name TEXT NOT NULL DEFAULT '',
    pi_email TEXT NOT NULL DEFAULT '',
    first_contributor TEXT NOT NULL DEFAULT '',
    first_contributor_email TEXT NOT NULL DEFAULT '',
    other_contributors TEXT NOT NULL DEFAULT '',
    support_grants TEXT NOT NULL DEFAULT '',
    other_funding_source TEXT NOT NULL DEFAULT '',
    publication_doi TEXT NOT NULL DEFAULT '',
    publication_pmid TEXT NOT NULL DEFAULT '',
    n_samples INTEGER,
    brain_super_region TEXT NOT NULL DEFAULT '',
    brain_region TEXT NOT NULL DEFAULT '',
    sample_info TEXT NOT NULL DEFAULT '',
    seurat TEXT NOT NULL DEFAULT '',
    study_id TEXT NOT NULL REFERENCES study(study_id)
);

CREATE INDEX IF NOT EXISTS idx_dataset_study_id ON dataset(study_id);

-- Protocols
CREATE TABLE IF NOT EXISTS protocol (
    protocol_id TEXT PRIMARY KEY,
    protocol_name TEXT NOT NULL,
    version TEXT NOT NULL DEFAULT '',
    github_url TEXT NOT NULL DEFAULT '',
    sample_collection_summary TEXT NOT NULL DEFAULT '',
    cell_extraction_summary TEXT NOT NULL DEFAULT '',
    lib_prep_summary TEXT NOT NULL DEFAULT '',
    data_processing_summary TEXT NOT NULL DEFAULT '',
    protocols_io_doi TEXT NOT NULL DEFAULT '',
    other_reference TEXT NOT NULL DEFAULT ''
);

-- Subjects (donors)
CREATE TABLE IF NOT EXISTS subject (
    subject_id TEXT PRIMARY KEY,
    sex TEXT NOT NULL DEFAULT '',
    age INTEGER,
    race TEXT NOT NULL DEFAULT '',
    diagnosis TEXT NOT NULL DEFAULT ''
);

-- Clinical pathology per subject
CREATE TABLE IF NOT EXISTS clinpath (
    clinpath_id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL REFERENCES subject(subject_id),
    braak_stage TEXT NOT NULL DEFAULT '',
    cerad_score TEXT NOT NULL DEFAULT '',
    apoe_genotype TEXT NOT NULL DEFAULT '',
    pmi REAL
);

CREATE INDEX IF NOT EXISTS idx_clinpath_subject_id ON clinpath(subject_id);

-- Samples
CREATE TABLE IF NOT EXISTS sample (
    sample_id TEXT PRIMARY KEY,
    dataset_id TEXT NOT NULL REFERENCES dataset(dataset_id),
    subject_id TEXT NOT NULL REFERENCES subject(subject_id),
    sample_name TEXT NOT NULL DEFAULT '',
    brain_region TEXT NOT NULL DEFAULT '',
    condition TEXT NOT NULL DEFAULT '',
    tissue TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_sample_dataset_id ON sample(dataset_id);

-- Data files
CREATE TABLE IF NOT EXISTS data (
    data_id TEXT PRIMARY KEY,
    dataset_id TEXT NOT NULL REFERENCES dataset(dataset_id),
    sample_id TEXT NOT NULL REFERENCES sample(sample_id),
    protocol_id TEXT NOT NULL REFERENCES protocol(protocol_id),
    data_type TEXT NOT NULL DEFAULT '',
    file_path TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_data_dataset_id ON data(dataset_id);
`
