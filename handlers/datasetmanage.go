// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/qtlportal/server/cliparse"
	"github.com/qtlportal/server/middleware"
	"github.com/qtlportal/server/models"
	"github.com/qtlportal/server/pipeline"
	"github.com/qtlportal/server/store"
	"github.com/qtlportal/server/workspace"
)

const (
	msgReceived      = "Data received successfully"
	msgInvalidType   = "Error: Invalid datatype."
	msgInvalidName   = "Error: Invalid dataset name."
	msgInvalidSeurat = "Error: Invalid Seurat object."
	msgRefreshed     = "Database refreshed successfully"
	jobIDTimeLayout  = "20060102150405"
	dataManagerHello = "Hello DataManager."
)

type DatasetManageHandler struct {
	store    *store.Store
	ws       *workspace.Workspace
	planner  pipeline.Planner
	launcher pipeline.Launcher
}

func NewDatasetManageHandler(db *sql.DB, cfg cliparse.Config, launcher pipeline.Launcher) *DatasetManageHandler {
	return &DatasetManageHandler{
		store: store.New(db),
		ws:    workspace.New(cfg.SeuratDir, cfg.DatasetsDir),
		planner: pipeline.Planner{
			FuncsDir:   cfg.FuncsDir,
			RscriptBin: cfg.RscriptBin,
			PythonBin:  cfg.PythonBin,
		},
		launcher: launcher,
	}
}

// rejected writes a 400 carrying the message in both message and error.
func rejected(w http.ResponseWriter, msg string) {
	middleware.JSONResponse(w, http.StatusBadRequest, models.MessageResponse{Message: msg, Error: msg})
}

// Root handles GET /datasetmanage/
func (h *DatasetManageHandler) Root(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.HelloResponse{Message: dataManagerHello})
}

// GetSeuratObjects handles GET /datasetmanage/getseuratobjects
func (h *DatasetManageHandler) GetSeuratObjects(w http.ResponseWriter, r *http.Request) {
	files, err := h.ws.ListSeuratObjects()
	if err != nil {
		slog.Error("failed to list seurat objects", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list Seurat objects")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, files)
}

// CheckDatasetName handles GET /datasetmanage/checkdatasetname?name=
func (h *DatasetManageHandler) CheckDatasetName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	// A name that cannot be a directory can never be taken, but it cannot be
	// used either.
	if err := workspace.ValidateName(name); err != nil {
		middleware.JSONResponse(w, http.StatusOK, models.NameCheckResponse{IsUnique: false})
		return
	}

	exists, err := h.ws.Exists(name)
	if err != nil {
		slog.Error("failed to stat dataset", "dataset", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to check dataset name")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.NameCheckResponse{IsUnique: !exists})
}

// ExtractSeuratData handles POST /datasetmanage/extractseuratdata
func (h *DatasetManageHandler) ExtractSeuratData(w http.ResponseWriter, r *http.Request) {
	var req models.SubmissionData
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	datatype, err := pipeline.ParseDataType(req.SeuratInfo.DataType)
	if err != nil {
		slog.Warn("rejected submission", "datatype", req.SeuratInfo.DataType, "error", err)
		rejected(w, msgInvalidType)
		return
	}
	seuratPath, err := h.ws.SeuratPath(req.SeuratInfo.Seurat)
	if err != nil {
		slog.Warn("rejected submission", "seurat", req.SeuratInfo.Seurat, "error", err)
		rejected(w, msgInvalidSeurat)
		return
	}

	name := req.DatasetInfo.DatasetName
	datasetPath, err := h.ws.EnsureDatasetDir(name)
	if errors.Is(err, workspace.ErrInvalidName) {
		rejected(w, msgInvalidName)
		return
	}
	if err != nil {
		slog.Error("failed to create dataset dir", "dataset", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create dataset directory")
		return
	}

	doc := &models.DatasetConfig{
		Seurat:   req.SeuratInfo,
		Dataset:  req.DatasetInfo,
		Study:    req.StudyInfo,
		Protocol: req.ProtocolInfo,
	}
	if err := h.ws.WriteConfig(name, doc); err != nil {
		slog.Error("failed to write dataset config", "dataset", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to write dataset config")
		return
	}

	// Records are only persisted by refreshdatabase.
	study, dataset := doc.Records()
	slog.Info("dataset submitted", "dataset", dataset.DatasetID, "study", study.StudyID, "seurat", dataset.Seurat, "datatype", datatype)

	var cmd pipeline.Command
	logPath, err := h.ws.LogPath(name, workspace.TaskExtractSeurat)
	if err == nil {
		cmd, err = h.planner.Extract(datatype, seuratPath, datasetPath, logPath)
	}
	if err == nil {
		err = h.launcher.Launch(cmd)
	}
	if err != nil {
		slog.Error("failed to launch extraction", "dataset", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start extraction")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: msgReceived,
		Success: true,
		JobID:   name + time.Now().Format(jobIDTimeLayout),
	})
}

// GetProcessingStatus handles GET /datasetmanage/getprocessingstatus?dataset=&task=
func (h *DatasetManageHandler) GetProcessingStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dataset, task := q.Get("dataset"), q.Get("task")
	if dataset == "" || task == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dataset and task are required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.ws.ReadStatus(dataset, workspace.Task(task)))
}

// GetDatasetFeatures handles GET /datasetmanage/getdatasetfeatures?dataset=
func (h *DatasetManageHandler) GetDatasetFeatures(w http.ResponseWriter, r *http.Request) {
	dataset := r.URL.Query().Get("dataset")
	if dataset == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dataset is required")
		return
	}

	features, err := h.ws.ReadFeatures(dataset)
	switch {
	case errors.Is(err, workspace.ErrInvalidName):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, os.ErrNotExist):
		middleware.ErrorResponse(w, http.StatusNotFound, "Dataset features not found")
		return
	case err != nil:
		slog.Error("failed to read dataset features", "dataset", dataset, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read dataset features")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, features)
}

// PrepareMetaFeatures handles POST /datasetmanage/preparemetafeatures
func (h *DatasetManageHandler) PrepareMetaFeatures(w http.ResponseWriter, r *http.Request) {
	var req models.MetaFeatureData
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	doc, err := h.ws.ReadConfig(req.Dataset)
	switch {
	case errors.Is(err, workspace.ErrInvalidName):
		rejected(w, msgInvalidName)
		return
	case errors.Is(err, workspace.ErrNoConfig):
		middleware.ErrorResponse(w, http.StatusNotFound, "Dataset config not found")
		return
	case err != nil:
		slog.Error("failed to read dataset config", "dataset", req.Dataset, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read dataset config")
		return
	}

	datatype, err := pipeline.ParseDataType(doc.Seurat.DataType)
	if err != nil {
		slog.Warn("dataset config has unsupported datatype", "dataset", req.Dataset, "error", err)
		rejected(w, msgInvalidType)
		return
	}

	features := withSpecialColumns(req.SelectedFeatures, req.SampleIDColumn, req.MajorClusterColumn, req.ConditionColumn)
	doc.MetaFeatures = &models.MetaFeatures{
		SelectedFeatures:   features,
		SampleIDColumn:     req.SampleIDColumn,
		MajorClusterColumn: req.MajorClusterColumn,
		ConditionColumn:    req.ConditionColumn,
	}
	if err := h.ws.WriteConfig(req.Dataset, doc); err != nil {
		slog.Error("failed to write dataset config", "dataset", req.Dataset, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to write dataset config")
		return
	}

	var cmd pipeline.Command
	logPath, err := h.ws.LogPath(req.Dataset, workspace.TaskPrepareMetadata)
	if err == nil {
		cmd, err = h.planner.PrepareMeta(datatype, h.ws.DatasetPath(req.Dataset), features,
			req.SampleIDColumn, req.MajorClusterColumn, req.ConditionColumn, logPath)
	}
	if err == nil {
		err = h.launcher.Launch(cmd)
	}
	if err != nil {
		slog.Error("failed to launch metadata preparation", "dataset", req.Dataset, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start metadata preparation")
		return
	}

	slog.Info("meta features selected", "dataset", req.Dataset, "features", len(features))
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: msgReceived, Success: true})
}

// withSpecialColumns appends each special column missing from selected,
// keeping the caller's order.
func withSpecialColumns(selected []string, special ...string) []string {
	out := append([]string{}, selected...)
	for _, col := range special {
		if !slices.Contains(out, col) {
			out = append(out, col)
		}
	}
	return out
}

// RefreshDatabase handles GET /datasetmanage/refreshdatabase
func (h *DatasetManageHandler) RefreshDatabase(w http.ResponseWriter, r *http.Request) {
	registered, err := h.refresh(r)
	if err != nil {
		slog.Error("database refresh aborted", "error", err)
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: err.Error()})
		return
	}

	slog.Info("database refreshed", "new_datasets", registered)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: msgRefreshed, Success: true})
}

// refresh registers every configured dataset directory and stops at the
// first failure. It returns how many datasets were newly inserted.
func (h *DatasetManageHandler) refresh(r *http.Request) (int, error) {
	ctx := r.Context()
	names, err := h.ws.ListDatasets()
	if err != nil {
		return 0, err
	}

	registered := 0
	for _, name := range names {
		if !h.ws.HasConfig(name) {
			continue
		}
		doc, err := h.ws.ReadConfig(name)
		if err != nil {
			return registered, err
		}
		study, dataset := doc.Records()

		if _, err := h.store.InsertStudy(ctx, study); err != nil {
			return registered, fmt.Errorf("dataset %s: %w", name, err)
		}

		_, err = h.store.GetDatasetByID(ctx, dataset.DatasetID)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return registered, fmt.Errorf("dataset %s: %w", name, err)
		}
		if _, err := h.store.InsertDataset(ctx, dataset); err != nil {
			return registered, fmt.Errorf("dataset %s: %w", name, err)
		}
		registered++
	}
	return registered, nil
}

// GetDatasetInfo handles GET /datasetmanage/getdatasetinfo?dataset=
func (h *DatasetManageHandler) GetDatasetInfo(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.store.GetDatasetByID(r.Context(), r.URL.Query().Get("dataset"))
	switch {
	case errors.Is(err, store.ErrEmptyID):
		middleware.ErrorResponse(w, http.StatusBadRequest, "dataset is required")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Dataset not found")
		return
	case err != nil:
		slog.Error("failed to get dataset", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, dataset)
}

// GetDatasets handles GET /datasetmanage/getdatasets
// Repeated query parameters filter on the named column; no parameters lists everything.
func (h *DatasetManageHandler) GetDatasets(w http.ResponseWriter, r *http.Request) {
	var (
		datasets []models.Dataset
		err      error
	)
	if q := r.URL.Query(); len(q) > 0 {
		datasets, err = h.store.GetDatasetsByConditions(r.Context(), q)
	} else {
		datasets, err = h.store.GetAllDatasets(r.Context())
	}
	if err != nil {
		slog.Error("failed to list datasets", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, datasets)
}

// GetStudies handles GET /datasetmanage/getstudies
func (h *DatasetManageHandler) GetStudies(w http.ResponseWriter, r *http.Request) {
	studies, err := h.store.GetAllStudies(r.Context())
	if err != nil {
		slog.Error("failed to list studies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, studies)
}

// GetSamples handles GET /datasetmanage/getsamples
func (h *DatasetManageHandler) GetSamples(w http.ResponseWriter, r *http.Request) {
	var (
		samples []models.Sample
		err     error
	)
	if q := r.URL.Query(); len(q) > 0 {
		samples, err = h.store.GetSamplesByConditions(r.Context(), q)
	} else {
		samples, err = h.store.GetAllSamples(r.Context())
	}
	if err != nil {
		slog.Error("failed to list samples", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, samples)
}

// GetData handles GET /datasetmanage/getdata?id=
func (h *DatasetManageHandler) GetData(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	data, err := h.store.GetDataByID(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrEmptyID):
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Data not found")
		return
	case err != nil:
		slog.Error("failed to get data", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, data)
}
