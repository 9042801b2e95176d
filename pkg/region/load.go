package region

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Zone table column names, matching the upstream ETL output.
const (
	colTractID          = "tract_id"
	colPopulation       = "popu"
	colVehicles         = "veh_num"
	colCharNumHome      = "char_num_home"
	colCharNumNotHome   = "char_num_not_home"
	colCharCapHome      = "char_capacity_home"
	colCharCapNotHome   = "char_capacity_not_home"
	colWorkplaceCharNum = "workplace_char_num"
	colWorkplaceCharCap = "workplace_char_capacity_kW"
	colWorkPopu         = "work_popu_LODES"
	colDisadvantaged    = "disadvantaged"
)

var requiredColumns = []string{
	colTractID, colPopulation, colVehicles,
	colCharNumHome, colCharNumNotHome, colCharCapHome, colCharCapNotHome,
	colWorkPopu, colDisadvantaged,
	string(IncomeLevel), string(MUDLevel), string(EmploymentLevel), string(MajorEthnicity),
}

// LoadZones reads a zone table from a CSV file keyed by tract identifier.
// The workplace charger columns are optional (absent outside the
// equivalent-capacity variant); the remaining columns are required.
func LoadZones(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening zone table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading zone table: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("zone table %s has no data rows", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("zone table %s missing column %q", path, name)
		}
	}

	zones := make([]Zone, 0, len(records)-1)
	for rowIdx, rec := range records[1:] {
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		num := func(name string) (float64, error) {
			s := get(name)
			if s == "" {
				return 0, nil
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, fmt.Errorf("row %d column %s: %w", rowIdx+2, name, err)
			}
			return v, nil
		}

		z := Zone{
			ID:              get(colTractID),
			IncomeLevel:     get(string(IncomeLevel)),
			MUDLevel:        get(string(MUDLevel)),
			EmploymentLevel: get(string(EmploymentLevel)),
			MajorEthnicity:  get(string(MajorEthnicity)),
		}
		fields := []struct {
			name string
			dst  *float64
		}{
			{colPopulation, &z.Population},
			{colVehicles, &z.Vehicles},
			{colCharNumHome, &z.CharNumHome},
			{colCharNumNotHome, &z.CharNumNotHome},
			{colCharCapHome, &z.CharCapHome},
			{colCharCapNotHome, &z.CharCapNotHome},
			{colWorkplaceCharNum, &z.WorkplaceCharNum},
			{colWorkplaceCharCap, &z.WorkplaceCharCap},
			{colWorkPopu, &z.WorkPopu},
		}
		for _, fld := range fields {
			if *fld.dst, err = num(fld.name); err != nil {
				return nil, err
			}
		}
		switch strings.ToLower(get(colDisadvantaged)) {
		case "1", "true", "yes":
			z.Disadvantaged = true
		}
		zones = append(zones, z)
	}

	return NewTable(zones)
}

// LoadMatrix reads a square delimited matrix whose first row and first
// column hold zone identifiers, and checks alignment against the table.
func LoadMatrix(path string, t *Table) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening matrix: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading matrix: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("matrix %s has no data rows", path)
	}

	header := records[0]
	n := len(records) - 1
	if len(header)-1 != n {
		return nil, fmt.Errorf("matrix %s is %dx%d, must be square", path, n, len(header)-1)
	}

	ids := make([]string, n)
	data := mat.NewDense(n, n, nil)
	for i, rec := range records[1:] {
		if len(rec) != n+1 {
			return nil, fmt.Errorf("matrix %s row %d has %d fields, want %d", path, i+2, len(rec), n+1)
		}
		rowID := strings.TrimSpace(rec[0])
		colID := strings.TrimSpace(header[i+1])
		if rowID != colID {
			return nil, fmt.Errorf("matrix %s: row key %q does not match column key %q at position %d", path, rowID, colID, i)
		}
		ids[i] = rowID
		for j := 1; j <= n; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
			if err != nil {
				return nil, fmt.Errorf("matrix %s row %d column %d: %w", path, i+2, j, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("matrix %s row %d column %d: negative entry %g", path, i+2, j, v)
			}
			data.Set(i, j-1, v)
		}
	}

	m, err := NewMatrix(ids, data)
	if err != nil {
		return nil, fmt.Errorf("matrix %s: %w", path, err)
	}
	if err := m.CheckAlignment(t); err != nil {
		return nil, fmt.Errorf("matrix %s: %w", path, err)
	}
	return m, nil
}
