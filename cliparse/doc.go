// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p        Server port
	-d        Database URL, or SQLite file path
	-t        Database type: sqlite, postgres or pgx
	-data     Data root holding Seurats/ and datasets/
	-funcs    Conversion script directory
	-rscript  Rscript executable
	-python   Python executable
	-env      dotenv file (default .env, missing file is ignored)

# Environment Variables

	PORT           → -p     (default 8000)
	DATABASE_URL   → -d     (default <data>/portal.db for sqlite)
	DATABASE_TYPE  → -t     (default sqlite)
	DATA_DIR       → -data  (default backend)
	FUNCS_DIR      → -funcs (default <data>/funcs)
	RSCRIPT_BIN    → -rscript
	PYTHON_BIN     → -python

CLI flags take precedence over environment variables. The dotenv file fills
in variables that are not already set in the process environment.

# Validation

ParseFlags returns an error for a non-numeric PORT, an unknown database type,
or a missing DATABASE_URL when the type is not sqlite.
*/
package cliparse
