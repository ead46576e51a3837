// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/qtlportal/server/middleware"
	"github.com/qtlportal/server/models"
	"github.com/qtlportal/server/qtl"
)

// errorSentinel marks a failed lookup inside an otherwise successful result.
const errorSentinel = "Error"

type QTLHandler struct {
	src qtl.Source
}

func NewQTLHandler(src qtl.Source) *QTLHandler {
	return &QTLHandler{src: src}
}

// Root handles GET /qtl/
func (h *QTLHandler) Root(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.HelloResponse{Message: "Hello QTL."})
}

// GetGeneList handles GET /qtl/getgenelist?dataset=&query_str=
func (h *QTLHandler) GetGeneList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serveLookup(w, r, "Error in getting QTL gene list.", func(ctx context.Context) ([]string, error) {
		return h.src.GeneList(ctx, q.Get("dataset"), q.Get("query_str"))
	})
}

// GetSNPList handles GET /qtl/getsnplist?dataset=&query_str=
func (h *QTLHandler) GetSNPList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serveLookup(w, r, "Error in getting QTL SNP list.", func(ctx context.Context) ([]string, error) {
		return h.src.SNPList(ctx, q.Get("dataset"), q.Get("query_str"))
	})
}

// GetCellTypesForGene handles GET /qtl/getcelltypesforgene?dataset=&gene=
func (h *QTLHandler) GetCellTypesForGene(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serveLookup(w, r, "Error in getting cell types for gene.", func(ctx context.Context) ([]string, error) {
		return h.src.CellTypesForGene(ctx, q.Get("dataset"), q.Get("gene"))
	})
}

// GetCellTypesForSNP handles GET /qtl/getcelltypesforsnp?dataset=&snp=
func (h *QTLHandler) GetCellTypesForSNP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serveLookup(w, r, "Error in getting cell types for SNP.", func(ctx context.Context) ([]string, error) {
		return h.src.CellTypesForSNP(ctx, q.Get("dataset"), q.Get("snp"))
	})
}

// GetSNPDataForGene handles GET /qtl/getsnpdataforgene?dataset=&gene=&celltype=
func (h *QTLHandler) GetSNPDataForGene(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serveLookup(w, r, "Error in getting SNP data.", func(ctx context.Context) ([]qtl.SNPAssociation, error) {
		return h.src.SNPDataForGene(ctx, q.Get("dataset"), q.Get("gene"), q.Get("celltype"))
	})
}

// GetGeneDataForSNP handles GET /qtl/getgenedataforsnp?dataset=&snp=&celltype=
func (h *QTLHandler) GetGeneDataForSNP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serveLookup(w, r, "Error in getting gene data.", func(ctx context.Context) ([]qtl.GeneAssociation, error) {
		return h.src.GeneDataForSNP(ctx, q.Get("dataset"), q.Get("snp"), q.Get("celltype"))
	})
}

// GetGeneChromosome handles GET /qtl/getgenechromosome?dataset=&gene=
func (h *QTLHandler) GetGeneChromosome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serveLookup(w, r, "Error in getting gene chromosome.", func(ctx context.Context) (string, error) {
		return h.src.GeneChromosome(ctx, q.Get("dataset"), q.Get("gene"))
	})
}

// GetSNPChromosome handles GET /qtl/getsnpchromosome?dataset=&snp=
func (h *QTLHandler) GetSNPChromosome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serveLookup(w, r, "Error in getting SNP chromosome.", func(ctx context.Context) (string, error) {
		return h.src.SNPChromosome(ctx, q.Get("dataset"), q.Get("snp"))
	})
}

// serveLookup writes the lookup result, or a 404 with detail when the lookup
// failed or its result carries the error sentinel.
func serveLookup[T any](w http.ResponseWriter, r *http.Request, detail string, lookup func(context.Context) (T, error)) {
	result, err := lookup(r.Context())
	if err != nil {
		slog.Warn("qtl lookup failed", "path", r.URL.Path, "query", r.URL.RawQuery, "error", err)
		middleware.ErrorResponse(w, http.StatusNotFound, detail)
		return
	}
	if hasErrorSentinel(result) {
		slog.Warn("qtl lookup returned an error marker", "path", r.URL.Path, "query", r.URL.RawQuery)
		middleware.ErrorResponse(w, http.StatusNotFound, detail)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// hasErrorSentinel reports whether v is nil, a string containing the
// sentinel, or a string list with the sentinel as an element.
func hasErrorSentinel(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.Contains(x, errorSentinel)
	case []string:
		return x == nil || slices.Contains(x, errorSentinel)
	case []qtl.SNPAssociation:
		return x == nil
	case []qtl.GeneAssociation:
		return x == nil
	}
	return false
}
