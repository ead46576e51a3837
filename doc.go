// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the QTL portal API server.

The portal collects single-cell and spatial transcriptomics datasets,
converts uploaded Seurat objects with external R and Python scripts, and
serves QTL associations between genes and SNPs per cell type.

# Starting the Server

With defaults (SQLite at backend/portal.db, port 8000):

	go run .

Against PostgreSQL:

	DATABASE_TYPE=pgx DATABASE_URL=postgres://... go run .

# Architecture

  - handlers: dataset manager and QTL request handlers
  - router: route table using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: records, request/response types, dataset_info.toml document
  - store: inserts and lookups over database/sql
  - db: driver selection and schema creation
  - workspace: Seurat inputs, dataset directories, job logs
  - pipeline: datatype handling and detached script launches
  - qtl: QTL lookups over per-dataset TSV tables
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
