// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the QTL portal API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, pipeline.ExecLauncher{})

The launcher runs the conversion scripts; tests pass a recording launcher.
QTL lookups read the TSV tables under cfg.DatasetsDir.

# Endpoints

Health:

	GET /health

Dataset manager:

	GET  /datasetmanage/                    - Greeting
	GET  /datasetmanage/getseuratobjects    - Uploaded .rds files
	GET  /datasetmanage/checkdatasetname    - Name availability
	POST /datasetmanage/extractseuratdata   - Submit dataset, start extraction
	GET  /datasetmanage/getprocessingstatus - Job status from its log
	GET  /datasetmanage/getdatasetfeatures  - Raw metadata columns
	POST /datasetmanage/preparemetafeatures - Choose columns, start rename
	GET  /datasetmanage/refreshdatabase     - Register configured datasets
	GET  /datasetmanage/getdatasetinfo      - One registered dataset
	GET  /datasetmanage/getdatasets         - Registered datasets, filterable
	GET  /datasetmanage/getstudies          - Registered studies
	GET  /datasetmanage/getsamples          - Samples, filterable
	GET  /datasetmanage/getdata             - One data file by UUID

QTL:

	GET /qtl/
	GET /qtl/getgenelist         ?dataset&query_str
	GET /qtl/getsnplist          ?dataset&query_str
	GET /qtl/getcelltypesforgene ?dataset&gene
	GET /qtl/getcelltypesforsnp  ?dataset&snp
	GET /qtl/getsnpdataforgene   ?dataset&gene&celltype
	GET /qtl/getgenedataforsnp   ?dataset&snp&celltype
	GET /qtl/getgenechromosome   ?dataset&gene
	GET /qtl/getsnpchromosome    ?dataset&snp

Every route except /health and / is wrapped with middleware.WithLogging.
*/
package router
