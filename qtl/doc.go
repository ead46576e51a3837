// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package qtl answers gene and SNP association lookups. Source is what the
// HTTP layer depends on; FileSource serves it from per-dataset TSV tables.
package qtl
