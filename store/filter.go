// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"sort"
	"strings"
)

// Filterable attributes, keyed by the record's JSON field name.
var sampleFilterColumns = map[string]string{
	"sample_id":    "sample_id",
	"dataset_id":   "dataset_id",
	"subject_id":   "subject_id",
	"sample_name":  "sample_name",
	"brain_region": "brain_region",
	"condition":    "condition",
	"tissue":       "tissue",
}

var datasetFilterColumns = map[string]string{
	"dataset_id":              "dataset_id",
	"dataset_name":            "dataset_name",
	"assay":                   "assay",
	"PI_full_name":            "pi_full_name",
	"PI_email":                "pi_email",
	"first_contributor":       "first_contributor",
	"first_contributor_email": "first_contributor_email",
	"publication_DOI":         "publication_doi",
	"publication_PMID":        "publication_pmid",
	"n_samples":               "n_samples",
	"brain_super_region":      "brain_super_region",
	"brain_region":            "brain_region",
	"seurat":                  "seurat",
	"study_id":                "study_id",
}

// buildFilter turns {attr: [v1, v2]} into " WHERE col IN ($1, $2) AND ...".
// Attributes are visited in sorted order so placeholders are numbered
// deterministically. An empty value list matches no rows.
func buildFilter(columns map[string]string, conditions map[string][]string) (string, []any) {
	keys := make([]string, 0, len(conditions))
	for k := range conditions {
		if _, ok := columns[k]; ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", nil
	}
	sort.Strings(keys)

	var clauses []string
	var args []any
	for _, k := range keys {
		values := conditions[k]
		if len(values) == 0 {
			clauses = append(clauses, "1 = 0")
			continue
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			args = append(args, v)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, columns[k]+" IN ("+strings.Join(placeholders, ", ")+")")
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
