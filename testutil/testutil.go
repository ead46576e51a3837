// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/qtlportal/server/cliparse"
	"github.com/qtlportal/server/db"
	"github.com/qtlportal/server/models"
	"github.com/qtlportal/server/pipeline"
)

// SetupTestDB creates a fresh SQLite database in a temp dir with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a configuration whose data tree lives in a temp dir.
// The Seurats/ and datasets/ directories are created empty.
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()

	dataDir := t.TempDir()
	cfg := cliparse.Config{
		Port:         8000,
		DatabaseType: "sqlite",
		DatabaseURL:  filepath.Join(dataDir, "portal.db"),
		DataDir:      dataDir,
		SeuratDir:    filepath.Join(dataDir, "Seurats"),
		DatasetsDir:  filepath.Join(dataDir, "datasets"),
		FuncsDir:     filepath.Join(dataDir, "funcs"),
		RscriptBin:   "Rscript",
		PythonBin:    "python3",
	}
	for _, dir := range []string{cfg.SeuratDir, cfg.DatasetsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return cfg
}

// SampleSubmission returns a complete, valid extractseuratdata payload
func SampleSubmission(datasetName, datatype string) models.SubmissionData {
	n := 8
	return models.SubmissionData{
		SeuratInfo: models.SeuratInfo{Seurat: "cortex.rds", DataType: datatype},
		DatasetInfo: models.DatasetInfo{
			DatasetName:           datasetName,
			Assay:                 "snRNA-seq",
			PIFullName:            "Jane Doe",
			PIEmail:               "jane@example.org",
			FirstContributor:      "John Roe",
			FirstContributorEmail: "john@example.org",
			NSamples:              &n,
			BrainRegion:           "DLPFC",
		},
		StudyInfo: models.StudyInfo{
			StudyName:      "ROSMAP",
			TeamName:       "Neurogenomics",
			LabName:        "Doe Lab",
			SubmitterName:  "John Roe",
			SubmitterEmail: "john@example.org",
		},
		ProtocolInfo: models.ProtocolInfo{
			ProtocolID:   "PRT-1",
			ProtocolName: "Nuclei isolation",
		},
	}
}

// WriteDatasetConfig writes dataset_info.toml for a dataset, creating its directory
func WriteDatasetConfig(t *testing.T, cfg cliparse.Config, name string, doc models.DatasetConfig) string {
	t.Helper()

	dir := filepath.Join(cfg.DatasetsDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create dataset dir: %v", err)
	}
	f, err := os.Create(filepath.Join(dir, "dataset_info.toml"))
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(doc); err != nil {
		t.Fatalf("Failed to encode config: %v", err)
	}
	return dir
}

// WriteFile writes content to path, creating parent directories
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// RecordingLauncher records commands instead of running them. If Err is set,
// Launch returns it without recording.
type RecordingLauncher struct {
	mu       sync.Mutex
	commands []pipeline.Command
	Err      error
}

func (l *RecordingLauncher) Launch(c pipeline.Command) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	l.commands = append(l.commands, c)
	return nil
}

// Commands returns a copy of everything launched so far
func (l *RecordingLauncher) Commands() []pipeline.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]pipeline.Command(nil), l.commands...)
}
