// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		tag     string
		want    DataType
		wantErr bool
	}{
		{"scRNAseq", SingleCell, false},
		{"SCRNASEQ", SingleCell, false},
		{"snRNAseq", SingleCell, false},
		{"VisiumST", Visium, false},
		{"visiumst", Visium, false},
		{"Visium", 0, true},
		{"bulkRNAseq", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseDataType(tt.tag)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedDataType) {
					t.Errorf("Expected ErrUnsupportedDataType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPlanner_Extract(t *testing.T) {
	p := Planner{FuncsDir: "backend/funcs", RscriptBin: "Rscript", PythonBin: "python3"}

	tests := []struct {
		dt     DataType
		script string
	}{
		{SingleCell, "backend/funcs/extract_SC.R"},
		{Visium, "backend/funcs/extract_Visium.R"},
	}
	for _, tt := range tests {
		t.Run(tt.dt.String(), func(t *testing.T) {
			cmd, err := p.Extract(tt.dt, "backend/Seurats/x.rds", "backend/datasets/x", "backend/datasets/x/extract_seurat_output.log")
			if err != nil {
				t.Fatal(err)
			}
			if cmd.Name != "Rscript" {
				t.Errorf("Expected Rscript, got %s", cmd.Name)
			}
			want := []string{filepath.FromSlash(tt.script), "backend/Seurats/x.rds", "backend/datasets/x"}
			if strings.Join(cmd.Args, "|") != strings.Join(want, "|") {
				t.Errorf("Expected args %v, got %v", want, cmd.Args)
			}
			if cmd.LogPath != "backend/datasets/x/extract_seurat_output.log" {
				t.Errorf("Unexpected log path %s", cmd.LogPath)
			}
		})
	}

	if _, err := p.Extract(DataType(99), "a", "b", "c"); !errors.Is(err, ErrUnsupportedDataType) {
		t.Errorf("Expected ErrUnsupportedDataType, got %v", err)
	}
}

func TestPlanner_PrepareMeta(t *testing.T) {
	p := Planner{FuncsDir: "funcs", RscriptBin: "Rscript", PythonBin: "python3"}

	cmd, err := p.PrepareMeta(Visium, "datasets/x", []string{"orig.ident", "seurat_clusters", "dx"}, "orig.ident", "seurat_clusters", "dx", "datasets/x/prepare_meta_output.log")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Name != "python3" {
		t.Errorf("Expected python3, got %s", cmd.Name)
	}
	want := []string{filepath.Join("funcs", "rename_meta_Visium.py"), "datasets/x", "orig.ident,seurat_clusters,dx", "orig.ident", "seurat_clusters", "dx"}
	if strings.Join(cmd.Args, "|") != strings.Join(want, "|") {
		t.Errorf("Expected args %v, got %v", want, cmd.Args)
	}
}

func TestExecLauncher(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "job.log")

	err := ExecLauncher{}.Launch(Command{Name: "echo", Args: []string{"Done!"}, LogPath: logPath})
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		content, _ := os.ReadFile(logPath)
		if strings.Contains(string(content), "Done!") {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Log never contained marker, got %q", content)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestExecLauncher_MissingBinary(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "job.log")

	err := ExecLauncher{}.Launch(Command{Name: "definitely-not-a-real-binary-qtl", LogPath: logPath})
	if err == nil {
		t.Fatal("Expected start error for missing binary")
	}
}
