package region

import (
	"os"
	"path/filepath"
	"testing"
)

const zonesCSV = `tract_id,popu,veh_num,char_num_home,char_num_not_home,char_capacity_home,char_capacity_not_home,workplace_char_num,workplace_char_capacity_kW,work_popu_LODES,income_level,mud_level,employment_level,major_ethnicity,disadvantaged
17031010100,1000,600,5,2,35,14,3,39,400,low,high,low,hispanic,1
17031010200,2000,1500,20,10,140,70,0,0,900,high,low,high,white,0
`

const matrixCSV = `,17031010100,17031010200
17031010100,100,300
17031010200,50,450
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadZones(t *testing.T) {
	table, err := LoadZones(writeFile(t, "zones.csv", zonesCSV))
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}

	z := table.Zones[0]
	if z.ID != "17031010100" || z.Population != 1000 || z.Vehicles != 600 {
		t.Errorf("zone 0 = %+v", z)
	}
	if z.WorkplaceCharCap != 39 || z.WorkPopu != 400 {
		t.Errorf("workplace columns = %g, %g", z.WorkplaceCharCap, z.WorkPopu)
	}
	if z.IncomeLevel != "low" || z.MajorEthnicity != "hispanic" {
		t.Errorf("labels = %q, %q", z.IncomeLevel, z.MajorEthnicity)
	}
	if !z.Disadvantaged {
		t.Error("disadvantaged flag not parsed")
	}
	if table.Zones[1].Disadvantaged {
		t.Error("zone 1 should not be disadvantaged")
	}
}

func TestLoadZonesMissingColumn(t *testing.T) {
	csv := `tract_id,popu
a,100
`
	if _, err := LoadZones(writeFile(t, "zones.csv", csv)); err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestLoadZonesBadNumber(t *testing.T) {
	csv := `tract_id,popu,veh_num,char_num_home,char_num_not_home,char_capacity_home,char_capacity_not_home,work_popu_LODES,income_level,mud_level,employment_level,major_ethnicity,disadvantaged
a,abc,1,0,0,0,0,0,low,low,low,white,0
`
	if _, err := LoadZones(writeFile(t, "zones.csv", csv)); err == nil {
		t.Error("expected error for non-numeric population")
	}
}

func TestLoadMatrix(t *testing.T) {
	table, err := LoadZones(writeFile(t, "zones.csv", zonesCSV))
	if err != nil {
		t.Fatal(err)
	}

	m, err := LoadMatrix(writeFile(t, "flow.csv", matrixCSV), table)
	if err != nil {
		t.Fatal(err)
	}
	if m.At(0, 1) != 300 || m.At(1, 0) != 50 {
		t.Errorf("entries = %g, %g", m.At(0, 1), m.At(1, 0))
	}
}

func TestLoadMatrixErrors(t *testing.T) {
	table, err := LoadZones(writeFile(t, "zones.csv", zonesCSV))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		csv  string
	}{
		{"not square", ",a,b\na,1,2\n"},
		{"row col key mismatch", ",17031010100,17031010200\n17031010200,1,2\n17031010100,3,4\n"},
		{"negative entry", ",17031010100,17031010200\n17031010100,1,-2\n17031010200,3,4\n"},
		{"misaligned with table", ",x,y\nx,1,2\ny,3,4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMatrix(writeFile(t, "m.csv", tt.csv), table); err == nil {
				t.Error("expected error")
			}
		})
	}
}
