// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnsupportedDataType = errors.New("unsupported datatype")

// DataType is the closed set of dataset kinds the conversion scripts handle.
type DataType int

const (
	SingleCell DataType = iota + 1 // scRNAseq, snRNAseq
	Visium                         // VisiumST
)

func (d DataType) String() string {
	switch d {
	case SingleCell:
		return "single-cell"
	case Visium:
		return "visium"
	}
	return "unknown"
}

// ParseDataType maps a submission's datatype tag, case-insensitively.
func ParseDataType(tag string) (DataType, error) {
	switch strings.ToLower(tag) {
	case "scrnaseq", "snrnaseq":
		return SingleCell, nil
	case "visiumst":
		return Visium, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedDataType, tag)
}

type scriptSet struct {
	extract    string
	renameMeta string
}

var scripts = map[DataType]scriptSet{
	SingleCell: {extract: "extract_SC.R", renameMeta: "rename_meta_SC.py"},
	Visium:     {extract: "extract_Visium.R", renameMeta: "rename_meta_Visium.py"},
}

// Command is one external script invocation with its output redirected to LogPath.
type Command struct {
	Name    string
	Args    []string
	LogPath string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Planner builds script invocations from the configured interpreters.
type Planner struct {
	FuncsDir   string
	RscriptBin string
	PythonBin  string
}

// Extract runs the R script that unpacks a Seurat object into datasetPath.
func (p Planner) Extract(dt DataType, seuratPath, datasetPath, logPath string) (Command, error) {
	s, ok := scripts[dt]
	if !ok {
		return Command{}, fmt.Errorf("%w: %v", ErrUnsupportedDataType, dt)
	}
	return Command{
		Name:    p.RscriptBin,
		Args:    []string{filepath.Join(p.FuncsDir, s.extract), seuratPath, datasetPath},
		LogPath: logPath,
	}, nil
}

// PrepareMeta runs the Python script that renames the selected metadata columns.
func (p Planner) PrepareMeta(dt DataType, datasetPath string, features []string, sampleIDColumn, clusterColumn, conditionColumn, logPath string) (Command, error) {
	s, ok := scripts[dt]
	if !ok {
		return Command{}, fmt.Errorf("%w: %v", ErrUnsupportedDataType, dt)
	}
	return Command{
		Name: p.PythonBin,
		Args: []string{
			filepath.Join(p.FuncsDir, s.renameMeta),
			datasetPath,
			strings.Join(features, ","),
			sampleIDColumn,
			clusterColumn,
			conditionColumn,
		},
		LogPath: logPath,
	}, nil
}
