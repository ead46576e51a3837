// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package qtl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	qtlDir       = "qtl"
	genesFile    = "genes.tsv"
	snpsFile     = "snps.tsv"
	cellTypesDir = "celltypes"
	tsvExt       = ".tsv"

	// queryAll is the query_str the frontend sends to list everything.
	queryAll = "all"
)

// FileSource reads pre-computed QTL tables laid out per dataset:
//
//	<root>/<dataset>/qtl/genes.tsv                  gene_id chromosome position_start position_end strand
//	<root>/<dataset>/qtl/snps.tsv                   snp_id chromosome position
//	<root>/<dataset>/qtl/celltypes/<celltype>.tsv   gene_id snp_id p_value beta_value
//
// Every file starts with a header row; columns are found by name. Files are
// read on every call.
type FileSource struct {
	root string
}

func NewFileSource(datasetsDir string) *FileSource {
	return &FileSource{root: datasetsDir}
}

type gene struct {
	id         string
	chromosome string
	start, end int64
	strand     string
}

type snp struct {
	id         string
	chromosome string
	position   int64
}

type association struct {
	geneID, snpID string
	pValue, beta  float64
}

func (s *FileSource) GeneList(ctx context.Context, dataset, query string) ([]string, error) {
	genes, err := s.genes(dataset)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(genes))
	for _, g := range genes {
		if matches(g.id, query) {
			ids = append(ids, g.id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileSource) SNPList(ctx context.Context, dataset, query string) ([]string, error) {
	snps, err := s.snps(dataset)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(snps))
	for _, v := range snps {
		if matches(v.id, query) {
			ids = append(ids, v.id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileSource) CellTypesForGene(ctx context.Context, dataset, gene string) ([]string, error) {
	return s.cellTypesWhere(ctx, dataset, func(a association) bool { return a.geneID == gene })
}

func (s *FileSource) CellTypesForSNP(ctx context.Context, dataset, snp string) ([]string, error) {
	return s.cellTypesWhere(ctx, dataset, func(a association) bool { return a.snpID == snp })
}

func (s *FileSource) SNPDataForGene(ctx context.Context, dataset, gene, celltype string) ([]SNPAssociation, error) {
	snps, err := s.snps(dataset)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]snp, len(snps))
	for _, v := range snps {
		byID[v.id] = v
	}

	out := []SNPAssociation{}
	err = s.associations(dataset, celltype, func(a association) {
		if a.geneID != gene {
			return
		}
		v := byID[a.snpID]
		out = append(out, SNPAssociation{
			SNPID:      a.snpID,
			Chromosome: v.chromosome,
			Position:   v.position,
			PValue:     a.pValue,
			BetaValue:  a.beta,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileSource) GeneDataForSNP(ctx context.Context, dataset, snp, celltype string) ([]GeneAssociation, error) {
	genes, err := s.genes(dataset)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]gene, len(genes))
	for _, g := range genes {
		byID[g.id] = g
	}

	out := []GeneAssociation{}
	err = s.associations(dataset, celltype, func(a association) {
		if a.snpID != snp {
			return
		}
		g := byID[a.geneID]
		out = append(out, GeneAssociation{
			GeneID:        a.geneID,
			Chromosome:    g.chromosome,
			PositionStart: g.start,
			PositionEnd:   g.end,
			Strand:        g.strand,
			PValue:        a.pValue,
			BetaValue:     a.beta,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileSource) GeneChromosome(ctx context.Context, dataset, geneID string) (string, error) {
	genes, err := s.genes(dataset)
	if err != nil {
		return "", err
	}
	for _, g := range genes {
		if g.id == geneID {
			return g.chromosome, nil
		}
	}
	return "", fmt.Errorf("gene %s: %w", geneID, ErrNotFound)
}

func (s *FileSource) SNPChromosome(ctx context.Context, dataset, snpID string) (string, error) {
	snps, err := s.snps(dataset)
	if err != nil {
		return "", err
	}
	for _, v := range snps {
		if v.id == snpID {
			return v.chromosome, nil
		}
	}
	return "", fmt.Errorf("snp %s: %w", snpID, ErrNotFound)
}

func matches(id, query string) bool {
	if query == "" || strings.EqualFold(query, queryAll) {
		return true
	}
	return strings.Contains(strings.ToLower(id), strings.ToLower(query))
}

func (s *FileSource) cellTypesWhere(ctx context.Context, dataset string, keep func(association) bool) ([]string, error) {
	cellTypes, err := s.cellTypes(dataset)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, ct := range cellTypes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found := false
		err := s.associations(dataset, ct, func(a association) {
			if !found && keep(a) {
				found = true
			}
		})
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, ct)
		}
	}
	return out, nil
}

// Paths

func (s *FileSource) dir(dataset string) (string, error) {
	if dataset == "" || strings.Contains(dataset, "..") || strings.ContainsAny(dataset, `/\`) {
		return "", fmt.Errorf("dataset %q: %w", dataset, ErrNotFound)
	}
	return filepath.Join(s.root, dataset, qtlDir), nil
}

func (s *FileSource) cellTypes(dataset string) ([]string, error) {
	dir, err := s.dir(dataset)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(dir, cellTypesDir))
	if err != nil {
		return nil, notFound(err)
	}
	out := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), tsvExt) {
			out = append(out, strings.TrimSuffix(e.Name(), tsvExt))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Readers

func (s *FileSource) genes(dataset string) ([]gene, error) {
	dir, err := s.dir(dataset)
	if err != nil {
		return nil, err
	}
	var out []gene
	err = readTSV(filepath.Join(dir, genesFile), []string{"gene_id", "chromosome", "position_start", "position_end", "strand"},
		func(f []string) error {
			start, err := strconv.ParseInt(f[2], 10, 64)
			if err != nil {
				return err
			}
			end, err := strconv.ParseInt(f[3], 10, 64)
			if err != nil {
				return err
			}
			out = append(out, gene{id: f[0], chromosome: f[1], start: start, end: end, strand: f[4]})
			return nil
		})
	return out, err
}

func (s *FileSource) snps(dataset string) ([]snp, error) {
	dir, err := s.dir(dataset)
	if err != nil {
		return nil, err
	}
	var out []snp
	err = readTSV(filepath.Join(dir, snpsFile), []string{"snp_id", "chromosome", "position"},
		func(f []string) error {
			pos, err := strconv.ParseInt(f[2], 10, 64)
			if err != nil {
				return err
			}
			out = append(out, snp{id: f[0], chromosome: f[1], position: pos})
			return nil
		})
	return out, err
}

func (s *FileSource) associations(dataset, celltype string, fun func(association)) error {
	dir, err := s.dir(dataset)
	if err != nil {
		return err
	}
	if celltype == "" || strings.Contains(celltype, "..") || strings.ContainsAny(celltype, `/\`) {
		return fmt.Errorf("cell type %q: %w", celltype, ErrNotFound)
	}
	path := filepath.Join(dir, cellTypesDir, celltype+tsvExt)
	return readTSV(path, []string{"gene_id", "snp_id", "p_value", "beta_value"},
		func(f []string) error {
			p, err := strconv.ParseFloat(f[2], 64)
			if err != nil {
				return err
			}
			beta, err := strconv.ParseFloat(f[3], 64)
			if err != nil {
				return err
			}
			fun(association{geneID: f[0], snpID: f[1], pValue: p, beta: beta})
			return nil
		})
}

// readTSV calls fun with the requested columns of every data row, in the
// order given by columns.
func readTSV(path string, columns []string, fun func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return notFound(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var index []int
	picked := make([]string, len(columns))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		if index == nil {
			index, err = headerIndex(fields, columns)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			continue
		}

		for i, col := range index {
			if col >= len(fields) {
				return fmt.Errorf("%s:%d: short row", path, lineNo)
			}
			picked[i] = fields[col]
		}
		if err := fun(picked); err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func headerIndex(header, columns []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	index := make([]int, len(columns))
	for i, c := range columns {
		p, ok := pos[c]
		if !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
		index[i] = p
	}
	return index, nil
}

func notFound(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
