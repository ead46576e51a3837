// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the QTL portal API.

# Handler Types

  - DatasetManageHandler: dataset submission, background jobs, registration
  - QTLHandler: gene and SNP association lookups

	dm := handlers.NewDatasetManageHandler(db, cfg, pipeline.ExecLauncher{})
	q := handlers.NewQTLHandler(qtl.NewFileSource(cfg.DatasetsDir))

# Submission Flow

	GET  /datasetmanage/checkdatasetname    → name must be unused
	POST /datasetmanage/extractseuratdata   → writes dataset_info.toml, starts extract_*.R
	GET  /datasetmanage/getprocessingstatus → polls extract_seurat_output.log for "Done!"
	GET  /datasetmanage/getdatasetfeatures  → raw_metadata_columns.json
	POST /datasetmanage/preparemetafeatures → adds [meta_features], starts rename_meta_*.py
	GET  /datasetmanage/refreshdatabase     → inserts Study and Dataset rows

Extraction does not write to the database. Rows appear only after a refresh,
which skips directories without dataset_info.toml and stops at the first error.

The datatype tag is checked before anything is written. scRNAseq and
snRNAseq select the single-cell scripts, VisiumST the Visium scripts; any
other tag gets 400 with {"message":"Error: Invalid datatype.","success":false}.

# QTL Lookups

Query parameters go to the qtl.Source unchanged. The handler answers 404 with
a fixed detail message when the source errors, returns nil, or returns a
result carrying the "Error" marker.

# Response Shapes

Dataset-manager job endpoints answer {message, success[, jobId]}. Other
failures use middleware.ErrorResponse: {"error": <status text>, "message": <detail>}.
*/
package handlers
