package sweep

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/rttri/PoWER/pkg/equity"
	"github.com/rttri/PoWER/pkg/region"
)

func runDataset(t *testing.T) *equity.Dataset {
	t.Helper()
	zones := []region.Zone{
		{ID: "a", Population: 100, Vehicles: 60, CharCapHome: 50, WorkPopu: 100,
			IncomeLevel: "low", MUDLevel: "low", EmploymentLevel: "low", MajorEthnicity: "white"},
		{ID: "b", Population: 200, Vehicles: 150, WorkPopu: 200,
			IncomeLevel: "high", MUDLevel: "low", EmploymentLevel: "low", MajorEthnicity: "white"},
	}
	table, err := region.NewTable(zones)
	if err != nil {
		t.Fatal(err)
	}
	flow, err := region.NewMatrix(table.IDs(), mat.NewDense(2, 2, []float64{100, 0, 0, 200}))
	if err != nil {
		t.Fatal(err)
	}
	dist, err := region.NewMatrix(table.IDs(), mat.NewDense(2, 2, []float64{1, 1, 1, 1}))
	if err != nil {
		t.Fatal(err)
	}
	ds, err := equity.NewDataset(table, flow, dist)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestRunWritesRecordsAndManifest(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "results")
	cfg := &Config{
		OutputDir:   outDir,
		Indicators:  []string{"char_capacity_per_capita"},
		Groups:      []string{"income_level"},
		Disparities: []string{"mean_abs_dev"},
		Budgets:     []float64{0, 100},
		Weights:     []float64{1},
	}

	summary, err := Run(cfg, runDataset(t), RunOptions{Progress: false})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Tuples != 2 || summary.Feasible != 2 || summary.Infeasible != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Manifest.RunID == "" {
		t.Error("manifest has no run id")
	}

	data, err := os.ReadFile(filepath.Join(outDir, "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatal(err)
	}
	if manifest.Tuples != 2 || len(manifest.Files) != 2 {
		t.Errorf("manifest = %+v", manifest)
	}

	// Each record file is named by its parameter key and decodes cleanly.
	path := filepath.Join(outDir,
		"result_val_char_capacity_per_capita_income_level_mean_abs_dev_100_1_0.json")
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatal(err)
	}
	if !rec.Feasible || rec.Status != "optimal" {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Added) != 2 || len(rec.ZoneIDs) != 2 {
		t.Errorf("record vectors = %v, %v", rec.Added, rec.ZoneIDs)
	}
	if rec.ZoneIDs[0] != "a" || rec.ZoneIDs[1] != "b" {
		t.Errorf("zone order = %v", rec.ZoneIDs)
	}
}

func TestRunPropagatesBuildErrors(t *testing.T) {
	cfg := &Config{
		OutputDir:   t.TempDir(),
		Indicators:  []string{"char_per_capita"}, // evaluation-only
		Groups:      []string{"income_level"},
		Disparities: []string{"mean_abs_dev"},
		Budgets:     []float64{0},
		Weights:     []float64{1},
	}
	if _, err := Run(cfg, runDataset(t), RunOptions{}); err == nil {
		t.Error("expected error for evaluation-only indicator")
	}
}
