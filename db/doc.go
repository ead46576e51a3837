// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the relational store and creates its schema.

# Drivers

Open picks a database/sql driver from the configured type:

  - sqlite:   modernc.org/sqlite (pure Go, default)
  - postgres: github.com/lib/pq
  - pgx:      github.com/jackc/pgx/v5/stdlib

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Statements are executed one at a time.

# Tables

  - study:    studies, keyed by study name
  - dataset:  submitted datasets, keyed by dataset name
  - protocol: lab protocols
  - subject:  donors
  - clinpath: clinical pathology per subject
  - sample:   samples per dataset and subject
  - data:     data files, keyed by UUID

# Relationships

	study 1──* dataset
	dataset 1──* sample
	subject 1──* sample
	subject 1──* clinpath
	dataset/sample/protocol 1──* data

Rows are never updated or deleted by the service.
*/
package db
