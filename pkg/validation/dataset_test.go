package validation

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/rttri/PoWER/pkg/equity"
	"github.com/rttri/PoWER/pkg/region"
)

func goodZones() []region.Zone {
	return []region.Zone{
		{ID: "a", Population: 100, Vehicles: 60, CharCapHome: 50, WorkPopu: 100,
			IncomeLevel: "low", MUDLevel: "low", EmploymentLevel: "low", MajorEthnicity: "white"},
		{ID: "b", Population: 200, Vehicles: 150, WorkPopu: 200,
			IncomeLevel: "high", MUDLevel: "low", EmploymentLevel: "high", MajorEthnicity: "black"},
	}
}

func newTable(t *testing.T, zones []region.Zone) *region.Table {
	t.Helper()
	table, err := region.NewTable(zones)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestValidateTableClean(t *testing.T) {
	r := ValidateTable(newTable(t, goodZones()))
	if !r.Valid {
		t.Errorf("clean table invalid: %s", r.Summary)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", r.Warnings)
	}
}

func TestValidateTableFindings(t *testing.T) {
	zones := goodZones()
	zones[0].CharNumHome = -1
	zones[1].MajorEthnicity = ""
	zones[1].Vehicles = 0

	r := ValidateTable(newTable(t, zones))
	if r.Valid {
		t.Fatal("expected invalid report")
	}
	if len(r.Errors) != 2 {
		t.Errorf("got %d errors, want 2: %+v", len(r.Errors), r.Errors)
	}
	// Zero vehicles is a warning, not an error.
	if len(r.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %+v", len(r.Warnings), r.Warnings)
	}
	for _, e := range r.Errors {
		if e.Level != LevelSchema {
			t.Errorf("error at level %s, want schema", e.Level)
		}
	}
}

func TestValidateMatrixMisaligned(t *testing.T) {
	table := newTable(t, goodZones())
	m, err := region.NewMatrix([]string{"b", "a"}, mat.NewDense(2, 2, make([]float64, 4)))
	if err != nil {
		t.Fatal(err)
	}

	r := ValidateMatrix("commute_matrix", m, table)
	if r.Valid {
		t.Fatal("expected invalid report")
	}
	if r.Errors[0].Level != LevelAlignment {
		t.Errorf("level = %s, want alignment", r.Errors[0].Level)
	}
}

func TestValidateMatrixNegativeEntry(t *testing.T) {
	table := newTable(t, goodZones())
	m, err := region.NewMatrix(table.IDs(), mat.NewDense(2, 2, []float64{1, -2, 3, 4}))
	if err != nil {
		t.Fatal(err)
	}

	r := ValidateMatrix("commute_matrix", m, table)
	if r.Valid {
		t.Fatal("expected invalid report")
	}
	if !strings.Contains(r.Errors[0].Message, "negative") {
		t.Errorf("message = %q", r.Errors[0].Message)
	}
}

func testDataset(t *testing.T, zones []region.Zone, flow []float64) *equity.Dataset {
	t.Helper()
	table := newTable(t, zones)
	n := table.Len()
	flowM, err := region.NewMatrix(table.IDs(), mat.NewDense(n, n, flow))
	if err != nil {
		t.Fatal(err)
	}
	distData := make([]float64, n*n)
	for i := range distData {
		distData[i] = 1
	}
	distM, err := region.NewMatrix(table.IDs(), mat.NewDense(n, n, distData))
	if err != nil {
		t.Fatal(err)
	}
	ds, err := equity.NewDataset(table, flowM, distM)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestValidateDatasetWorkPopuDrift(t *testing.T) {
	zones := goodZones()
	// Column sum for zone a will be 100 against a recorded 150: 33% drift.
	zones[0].WorkPopu = 150
	ds := testDataset(t, zones, []float64{100, 0, 0, 200})

	r := ValidateDataset(ds)
	var found bool
	for _, w := range r.Warnings {
		if w.Zone == "a" && w.Level == LevelAnalytical {
			found = true
		}
	}
	if !found {
		t.Errorf("drift warning missing: %+v", r.Warnings)
	}
}

func TestValidateDatasetZeroVKTInfo(t *testing.T) {
	zones := goodZones()
	// Zone b has no outbound commuters, so its VKT row sums to zero.
	ds := testDataset(t, zones, []float64{100, 0, 0, 0})
	zonesSeen := map[string]bool{}
	for _, i := range ValidateDataset(ds).Info {
		zonesSeen[i.Zone] = true
	}
	if !zonesSeen["b"] {
		t.Error("zero-VKT info missing for zone b")
	}
}

func TestValidateAllClean(t *testing.T) {
	ds := testDataset(t, goodZones(), []float64{100, 0, 0, 200})
	r := ValidateAll(ds)
	if !r.Valid {
		t.Errorf("clean dataset invalid: %s", r.Summary)
	}
}
