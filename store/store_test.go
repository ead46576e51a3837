// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/qtlportal/server/models"
	"github.com/qtlportal/server/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(testutil.SetupTestDB(t))
}

func seedStudyAndDataset(t *testing.T, s *Store, datasetID string) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.InsertStudy(ctx, models.Study{StudyID: "ROSMAP", StudyName: "ROSMAP"}); err != nil {
		t.Fatalf("InsertStudy failed: %v", err)
	}
	n := 4
	if _, err := s.InsertDataset(ctx, models.Dataset{
		DatasetID:   datasetID,
		DatasetName: datasetID,
		Assay:       "scRNA-seq",
		NSamples:    &n,
		StudyID:     "ROSMAP",
	}); err != nil {
		t.Fatalf("InsertDataset failed: %v", err)
	}
}

func TestInsertStudy_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	study := models.Study{
		StudyID:   "ROSMAP",
		StudyName: "ROSMAP",
		TeamName:  "Neuro",
		LabName:   "Doe Lab",
	}

	first, err := s.InsertStudy(ctx, study)
	if err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	// Second insert with different attributes returns the stored row
	study.TeamName = "Changed"
	second, err := s.InsertStudy(ctx, study)
	if err != nil {
		t.Fatalf("Second insert failed: %v", err)
	}

	if *first != *second {
		t.Errorf("Expected identical rows, got %+v and %+v", first, second)
	}
	if second.TeamName != "Neuro" {
		t.Errorf("Existing row should be returned unchanged, got team %q", second.TeamName)
	}

	all, err := s.GetAllStudies(ctx)
	if err != nil {
		t.Fatalf("GetAllStudies failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 study, got %d", len(all))
	}
}

func TestInsertDataset_DuplicateFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedStudyAndDataset(t, s, "AD_2024")

	_, err := s.InsertDataset(ctx, models.Dataset{DatasetID: "AD_2024", DatasetName: "AD_2024", StudyID: "ROSMAP"})
	if err == nil {
		t.Fatal("Expected primary key violation on duplicate dataset")
	}
}

func TestGetDatasetByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedStudyAndDataset(t, s, "AD_2024")

	t.Run("found", func(t *testing.T) {
		d, err := s.GetDatasetByID(ctx, "AD_2024")
		if err != nil {
			t.Fatalf("GetDatasetByID failed: %v", err)
		}
		if d.StudyID != "ROSMAP" {
			t.Errorf("Expected study ROSMAP, got %s", d.StudyID)
		}
		if d.NSamples == nil || *d.NSamples != 4 {
			t.Errorf("Expected n_samples 4, got %v", d.NSamples)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetDatasetByID(ctx, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := s.GetDatasetByID(ctx, "")
		if !errors.Is(err, ErrEmptyID) {
			t.Errorf("Expected ErrEmptyID, got %v", err)
		}
	})
}

func TestNullableColumns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.InsertStudy(ctx, models.Study{StudyID: "S", StudyName: "S"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertDataset(ctx, models.Dataset{DatasetID: "D", DatasetName: "D", StudyID: "S"}); err != nil {
		t.Fatal(err)
	}

	d, err := s.GetDatasetByID(ctx, "D")
	if err != nil {
		t.Fatal(err)
	}
	if d.NSamples != nil {
		t.Errorf("Expected NULL n_samples, got %d", *d.NSamples)
	}
}

func seedSamples(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	seedStudyAndDataset(t, s, "AD_2024")

	age := 81
	if _, err := s.InsertSubject(ctx, models.Subject{SubjectID: "SUB1", Sex: "F", Age: &age}); err != nil {
		t.Fatalf("InsertSubject failed: %v", err)
	}
	if _, err := s.InsertSubject(ctx, models.Subject{SubjectID: "SUB2", Sex: "M"}); err != nil {
		t.Fatalf("InsertSubject failed: %v", err)
	}

	samples := []models.Sample{
		{SampleID: "S1", DatasetID: "AD_2024", SubjectID: "SUB1", BrainRegion: "DLPFC", Condition: "AD"},
		{SampleID: "S2", DatasetID: "AD_2024", SubjectID: "SUB2", BrainRegion: "DLPFC", Condition: "Control"},
		{SampleID: "S3", DatasetID: "AD_2024", SubjectID: "SUB2", BrainRegion: "HIP", Condition: "AD"},
	}
	for _, sm := range samples {
		if _, err := s.InsertSample(ctx, sm); err != nil {
			t.Fatalf("InsertSample failed: %v", err)
		}
	}
}

func TestGetSamplesByConditions(t *testing.T) {
	s := newTestStore(t)
	seedSamples(t, s)
	ctx := context.Background()

	tests := []struct {
		name       string
		conditions map[string][]string
		expected   []string
	}{
		{"no conditions", map[string][]string{}, []string{"S1", "S2", "S3"}},
		{"single value", map[string][]string{"condition": {"AD"}}, []string{"S1", "S3"}},
		{"multiple values", map[string][]string{"brain_region": {"HIP", "DLPFC"}}, []string{"S1", "S2", "S3"}},
		{"two attributes", map[string][]string{"condition": {"AD"}, "brain_region": {"DLPFC"}}, []string{"S1"}},
		{"unknown attribute ignored", map[string][]string{"colour": {"blue"}, "subject_id": {"SUB2"}}, []string{"S2", "S3"}},
		{"empty list matches nothing", map[string][]string{"condition": {}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.GetSamplesByConditions(ctx, tt.conditions)
			if err != nil {
				t.Fatalf("GetSamplesByConditions failed: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d samples, got %d: %+v", len(tt.expected), len(got), got)
			}
			for i, id := range tt.expected {
				if got[i].SampleID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, got[i].SampleID)
				}
			}
		})
	}
}

func TestGetAllSamples(t *testing.T) {
	s := newTestStore(t)
	seedSamples(t, s)

	all, err := s.GetAllSamples(context.Background())
	if err != nil {
		t.Fatalf("GetAllSamples failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 samples, got %d", len(all))
	}
}

func TestGetDatasetsByConditions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedStudyAndDataset(t, s, "AD_2024")
	if _, err := s.InsertDataset(ctx, models.Dataset{DatasetID: "PD_2023", DatasetName: "PD_2023", Assay: "Visium", StudyID: "ROSMAP"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetDatasetsByConditions(ctx, map[string][]string{"assay": {"Visium"}})
	if err != nil {
		t.Fatalf("GetDatasetsByConditions failed: %v", err)
	}
	if len(got) != 1 || got[0].DatasetID != "PD_2023" {
		t.Errorf("Expected only PD_2023, got %+v", got)
	}

	all, err := s.GetAllDatasets(ctx)
	if err != nil {
		t.Fatalf("GetAllDatasets failed: %v", err)
	}
	if len(all) != 2 || all[0].DatasetID != "AD_2024" {
		t.Errorf("Expected 2 datasets ordered by id, got %+v", all)
	}
}

func TestInsertAndGetData(t *testing.T) {
	s := newTestStore(t)
	seedSamples(t, s)
	ctx := context.Background()

	if _, err := s.InsertProtocol(ctx, models.Protocol{ProtocolID: "PRT-1", ProtocolName: "10x v3"}); err != nil {
		t.Fatalf("InsertProtocol failed: %v", err)
	}

	inserted, err := s.InsertData(ctx, models.Data{
		DatasetID:  "AD_2024",
		SampleID:   "S1",
		ProtocolID: "PRT-1",
		DataType:   "counts",
		FilePath:   "datasets/AD_2024/counts.h5",
	})
	if err != nil {
		t.Fatalf("InsertData failed: %v", err)
	}
	if inserted.DataID == uuid.Nil {
		t.Fatal("Expected generated UUID")
	}

	got, err := s.GetDataByID(ctx, inserted.DataID)
	if err != nil {
		t.Fatalf("GetDataByID failed: %v", err)
	}
	if *got != *inserted {
		t.Errorf("Expected %+v, got %+v", inserted, got)
	}

	if _, err := s.GetDataByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetDataByID(ctx, uuid.Nil); !errors.Is(err, ErrEmptyID) {
		t.Errorf("Expected ErrEmptyID, got %v", err)
	}

	all, err := s.GetAllData(ctx)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 data row, got %d", len(all))
	}
}

func TestInsertClinpath(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.InsertSubject(ctx, models.Subject{SubjectID: "SUB1"}); err != nil {
		t.Fatal(err)
	}
	pmi := 6.5
	c, err := s.InsertClinpath(ctx, models.Clinpath{ClinpathID: "CP1", SubjectID: "SUB1", BraakStage: "V", PMI: &pmi})
	if err != nil {
		t.Fatalf("InsertClinpath failed: %v", err)
	}
	if c.ClinpathID != "CP1" || *c.PMI != 6.5 {
		t.Errorf("Unexpected clinpath %+v", c)
	}
}
