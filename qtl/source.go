// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package qtl

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("qtl data not found")

// SNPAssociation is one SNP's association with a gene in a cell type.
type SNPAssociation struct {
	SNPID      string  `json:"snp_id"`
	Chromosome string  `json:"chromosome"`
	Position   int64   `json:"position"`
	PValue     float64 `json:"p_value"`
	BetaValue  float64 `json:"beta_value"`
}

// GeneAssociation is one gene's association with a SNP in a cell type.
type GeneAssociation struct {
	GeneID        string  `json:"gene_id"`
	Chromosome    string  `json:"chromosome"`
	PositionStart int64   `json:"position_start"`
	PositionEnd   int64   `json:"position_end"`
	Strand        string  `json:"strand"`
	PValue        float64 `json:"p_value"`
	BetaValue     float64 `json:"beta_value"`
}

// Source answers QTL lookups for a dataset. Parameters arrive exactly as the
// client sent them.
type Source interface {
	GeneList(ctx context.Context, dataset, query string) ([]string, error)
	SNPList(ctx context.Context, dataset, query string) ([]string, error)
	CellTypesForGene(ctx context.Context, dataset, gene string) ([]string, error)
	CellTypesForSNP(ctx context.Context, dataset, snp string) ([]string, error)
	SNPDataForGene(ctx context.Context, dataset, gene, celltype string) ([]SNPAssociation, error)
	GeneDataForSNP(ctx context.Context, dataset, snp, celltype string) ([]GeneAssociation, error)
	GeneChromosome(ctx context.Context, dataset, gene string) (string, error)
	SNPChromosome(ctx context.Context, dataset, snp string) (string, error)
}
