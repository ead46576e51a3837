// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/qtlportal/server/models"
)

const (
	ConfigFile   = "dataset_info.toml"
	FeaturesFile = "raw_metadata_columns.json"

	seuratExt = ".rds"
)

var (
	ErrInvalidName = errors.New("invalid dataset name")
	ErrNoConfig    = errors.New("dataset config not found")
	ErrUnknownTask = errors.New("unknown task")
)

// Task names a background job whose progress is written to a log file.
type Task string

const (
	TaskExtractSeurat   Task = "extract_seurat"
	TaskPrepareMetadata Task = "prepare_metadata"
)

var taskLogs = map[Task]string{
	TaskExtractSeurat:   "extract_seurat_output.log",
	TaskPrepareMetadata: "prepare_meta_output.log",
}

// DoneMarker is the line the conversion scripts print when they finish.
const DoneMarker = "Done!"

// Workspace is the on-disk layout shared with the conversion scripts:
//
//	<seurat dir>/*.rds
//	<datasets dir>/<name>/dataset_info.toml
//	<datasets dir>/<name>/*_output.log
//	<datasets dir>/<name>/raw_metadata_columns.json
type Workspace struct {
	seuratDir   string
	datasetsDir string
}

func New(seuratDir, datasetsDir string) *Workspace {
	return &Workspace{seuratDir: seuratDir, datasetsDir: datasetsDir}
}

// ValidateName rejects names that are not a single path component below
// their parent directory. Dots inside a name such as "v1..2" are fine.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: contains a path separator", ErrInvalidName)
	}
	return nil
}

// SeuratPath is where the extraction script reads a Seurat object from.
// The file must name an entry directly inside the Seurat directory.
func (ws *Workspace) SeuratPath(file string) (string, error) {
	if err := ValidateName(file); err != nil {
		return "", fmt.Errorf("seurat object: %w", err)
	}
	return filepath.Join(ws.seuratDir, file), nil
}

// ListSeuratObjects returns the .rds file names in the Seurat directory, sorted.
func (ws *Workspace) ListSeuratObjects() ([]string, error) {
	entries, err := os.ReadDir(ws.seuratDir)
	if err != nil {
		return nil, fmt.Errorf("read seurat dir: %w", err)
	}
	files := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), seuratExt) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func (ws *Workspace) DatasetPath(name string) string {
	return filepath.Join(ws.datasetsDir, name)
}

// Exists reports whether anything is present at the dataset's path.
func (ws *Workspace) Exists(name string) (bool, error) {
	_, err := os.Stat(ws.DatasetPath(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// EnsureDatasetDir creates the dataset directory if it is missing and returns its path.
func (ws *Workspace) EnsureDatasetDir(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	dir := ws.DatasetPath(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dataset dir: %w", err)
	}
	return dir, nil
}

// ListDatasets returns the names of all dataset directories, sorted.
func (ws *Workspace) ListDatasets() ([]string, error) {
	entries, err := os.ReadDir(ws.datasetsDir)
	if err != nil {
		return nil, fmt.Errorf("read datasets dir: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (ws *Workspace) configPath(name string) string {
	return filepath.Join(ws.DatasetPath(name), ConfigFile)
}

// HasConfig reports whether dataset_info.toml exists for the dataset.
func (ws *Workspace) HasConfig(name string) bool {
	_, err := os.Stat(ws.configPath(name))
	return err == nil
}

// ReadConfig decodes the dataset's dataset_info.toml.
func (ws *Workspace) ReadConfig(name string) (*models.DatasetConfig, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var cfg models.DatasetConfig
	if _, err := toml.DecodeFile(ws.configPath(name), &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNoConfig)
		}
		return nil, fmt.Errorf("decode %s config: %w", name, err)
	}
	return &cfg, nil
}

// WriteConfig replaces the dataset's dataset_info.toml.
func (ws *Workspace) WriteConfig(name string, cfg *models.DatasetConfig) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	f, err := os.Create(ws.configPath(name))
	if err != nil {
		return fmt.Errorf("create %s config: %w", name, err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encode %s config: %w", name, err)
	}
	return f.Close()
}

// LogPath is the file a task's stdout and stderr are redirected to.
func (ws *Workspace) LogPath(name string, task Task) (string, error) {
	file, ok := taskLogs[task]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}
	return filepath.Join(ws.DatasetPath(name), file), nil
}

// ReadStatus derives a task's status from its log: completed once the log
// contains DoneMarker, processing while it does not, failed when it cannot be
// read. The exit code of the process is never consulted.
func (ws *Workspace) ReadStatus(name string, task Task) models.ProcessingStatus {
	path, err := ws.LogPath(name, task)
	if err == nil {
		err = ValidateName(name)
	}
	if err != nil {
		return models.ProcessingStatus{Status: models.StatusFailed, Log: err.Error()}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return models.ProcessingStatus{Status: models.StatusFailed, Log: err.Error()}
	}

	status := models.StatusProcessing
	if strings.Contains(string(content), DoneMarker) {
		status = models.StatusCompleted
	}
	return models.ProcessingStatus{Status: status, Log: string(content)}
}

// ReadFeatures returns raw_metadata_columns.json as written by the extraction script.
func (ws *Workspace) ReadFeatures(name string) (json.RawMessage, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Join(ws.DatasetPath(name), FeaturesFile))
	if err != nil {
		return nil, fmt.Errorf("read features: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("read features: %s is not valid JSON", FeaturesFile)
	}
	return json.RawMessage(raw), nil
}
