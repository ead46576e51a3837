// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/qtlportal/server/cliparse"
	"github.com/qtlportal/server/handlers"
	"github.com/qtlportal/server/middleware"
	"github.com/qtlportal/server/pipeline"
	"github.com/qtlportal/server/qtl"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, launcher pipeline.Launcher) *http.ServeMux {
	mux := http.NewServeMux()

	dm := handlers.NewDatasetManageHandler(db, cfg, launcher)
	qtlHandler := handlers.NewQTLHandler(qtl.NewFileSource(cfg.DatasetsDir))

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Dataset submission and processing
	mux.HandleFunc("GET /datasetmanage/{$}", middleware.WithLogging(dm.Root))
	mux.HandleFunc("GET /datasetmanage/getseuratobjects", middleware.WithLogging(dm.GetSeuratObjects))
	mux.HandleFunc("GET /datasetmanage/checkdatasetname", middleware.WithLogging(dm.CheckDatasetName))
	mux.HandleFunc("POST /datasetmanage/extractseuratdata", middleware.WithLogging(dm.ExtractSeuratData))
	mux.HandleFunc("GET /datasetmanage/getprocessingstatus", middleware.WithLogging(dm.GetProcessingStatus))
	mux.HandleFunc("GET /datasetmanage/getdatasetfeatures", middleware.WithLogging(dm.GetDatasetFeatures))
	mux.HandleFunc("POST /datasetmanage/preparemetafeatures", middleware.WithLogging(dm.PrepareMetaFeatures))
	mux.HandleFunc("GET /datasetmanage/refreshdatabase", middleware.WithLogging(dm.RefreshDatabase))

	// Registered records
	mux.HandleFunc("GET /datasetmanage/getdatasetinfo", middleware.WithLogging(dm.GetDatasetInfo))
	mux.HandleFunc("GET /datasetmanage/getdatasets", middleware.WithLogging(dm.GetDatasets))
	mux.HandleFunc("GET /datasetmanage/getstudies", middleware.WithLogging(dm.GetStudies))
	mux.HandleFunc("GET /datasetmanage/getsamples", middleware.WithLogging(dm.GetSamples))
	mux.HandleFunc("GET /datasetmanage/getdata", middleware.WithLogging(dm.GetData))

	// QTL lookups
	mux.HandleFunc("GET /qtl/{$}", middleware.WithLogging(qtlHandler.Root))
	mux.HandleFunc("GET /qtl/getgenelist", middleware.WithLogging(qtlHandler.GetGeneList))
	mux.HandleFunc("GET /qtl/getsnplist", middleware.WithLogging(qtlHandler.GetSNPList))
	mux.HandleFunc("GET /qtl/getcelltypesforgene", middleware.WithLogging(qtlHandler.GetCellTypesForGene))
	mux.HandleFunc("GET /qtl/getcelltypesforsnp", middleware.WithLogging(qtlHandler.GetCellTypesForSNP))
	mux.HandleFunc("GET /qtl/getsnpdataforgene", middleware.WithLogging(qtlHandler.GetSNPDataForGene))
	mux.HandleFunc("GET /qtl/getgenedataforsnp", middleware.WithLogging(qtlHandler.GetGeneDataForSNP))
	mux.HandleFunc("GET /qtl/getgenechromosome", middleware.WithLogging(qtlHandler.GetGeneChromosome))
	mux.HandleFunc("GET /qtl/getsnpchromosome", middleware.WithLogging(qtlHandler.GetSNPChromosome))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("QTL portal API"))
	})

	return mux
}
