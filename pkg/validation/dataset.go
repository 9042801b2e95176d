package validation

import (
	"fmt"
	"math"

	"github.com/rttri/PoWER/pkg/equity"
	"github.com/rttri/PoWER/pkg/region"
)

// WorkPopuDriftTolerance is the relative drift between a zone's recorded
// work population and its commute-matrix column sum that is reported as a
// warning rather than ignored.
const WorkPopuDriftTolerance = 0.05

// ValidateTable performs schema validation on a zone table: per-zone value
// ranges and demographic label completeness.
func ValidateTable(t *region.Table) *Report {
	r := NewReport()

	for i := range t.Zones {
		z := &t.Zones[i]

		if z.Population <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("zone %s: population must be greater than 0", z.ID),
				Field:       "popu",
				Zone:        z.ID,
				ActualValue: z.Population,
				Expected:    "> 0",
			})
		}
		if z.Vehicles < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("zone %s: vehicle count must be non-negative", z.ID),
				Field:       "veh_num",
				Zone:        z.ID,
				ActualValue: z.Vehicles,
				Expected:    ">= 0",
			})
		}

		counts := map[string]float64{
			"char_num_home":              z.CharNumHome,
			"char_num_not_home":          z.CharNumNotHome,
			"char_capacity_home":         z.CharCapHome,
			"char_capacity_not_home":     z.CharCapNotHome,
			"workplace_char_num":         z.WorkplaceCharNum,
			"workplace_char_capacity_kW": z.WorkplaceCharCap,
			"work_popu_LODES":            z.WorkPopu,
		}
		for field, v := range counts {
			if v < 0 {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("zone %s: %s must be non-negative", z.ID, field),
					Field:       field,
					Zone:        z.ID,
					ActualValue: v,
					Expected:    ">= 0",
				})
			}
		}

		for _, attr := range region.Attributes() {
			label, err := z.Label(attr)
			if err != nil {
				continue
			}
			if label == "" {
				r.AddError(Result{
					Level:    LevelSchema,
					Message:  fmt.Sprintf("zone %s: empty %s label", z.ID, attr),
					Field:    string(attr),
					Zone:     z.ID,
					Expected: "non-empty label",
				})
			}
		}

		if z.Vehicles == 0 {
			r.AddWarning(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("zone %s: no registered vehicles; per-car indicators are undefined here", z.ID),
				Field:   "veh_num",
				Zone:    z.ID,
			})
		}
	}

	return r
}

// ValidateMatrix checks one zone-indexed matrix against the table: square
// shape and key order are alignment-level errors, negative entries are
// schema-level errors.
func ValidateMatrix(name string, m *region.Matrix, t *region.Table) *Report {
	r := NewReport()

	if err := m.CheckAlignment(t); err != nil {
		r.AddError(Result{
			Level:    LevelAlignment,
			Message:  fmt.Sprintf("%s: %v", name, err),
			Field:    name,
			Expected: "row and column keys matching the zone table order",
			Suggestions: []string{
				"regenerate the matrix from the same zone table",
			},
		})
		return r
	}

	n := m.Len()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if v := m.At(i, j); v < 0 {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("%s[%s,%s]: negative entry", name, m.IDs[i], m.IDs[j]),
					Field:       name,
					ActualValue: v,
					Expected:    ">= 0",
				})
			}
		}
	}
	return r
}

// ValidateDataset runs the analytical checks that need the bound dataset:
// commute-column totals against recorded work population, and workplace
// capacity that no commuter can reach.
func ValidateDataset(ds *equity.Dataset) *Report {
	r := NewReport()

	colSums := ds.Flow.ColSums()
	for j := range ds.Table.Zones {
		z := &ds.Table.Zones[j]

		if z.WorkPopu > 0 {
			drift := math.Abs(colSums[j]-z.WorkPopu) / z.WorkPopu
			if drift > WorkPopuDriftTolerance {
				r.AddWarning(Result{
					Level:       LevelAnalytical,
					Message:     fmt.Sprintf("zone %s: commute inflow %.0f drifts %.1f%% from recorded work population %.0f", z.ID, colSums[j], drift*100, z.WorkPopu),
					Field:       "work_popu_LODES",
					Zone:        z.ID,
					ActualValue: colSums[j],
					Expected:    fmt.Sprintf("within %.0f%% of %.0f", WorkPopuDriftTolerance*100, z.WorkPopu),
				})
			}
		}

		if z.WorkplaceCharCap > 0 && colSums[j] == 0 {
			r.AddError(Result{
				Level:       LevelAnalytical,
				Message:     fmt.Sprintf("zone %s: workplace capacity %.1f kW with no inbound commuters", z.ID, z.WorkplaceCharCap),
				Field:       "workplace_char_capacity_kW",
				Zone:        z.ID,
				ActualValue: z.WorkplaceCharCap,
				Expected:    "zero capacity, or a non-zero commute column",
			})
		}

		if ds.VKTOut(j) == 0 {
			r.AddInfo(Result{
				Level:   LevelAnalytical,
				Message: fmt.Sprintf("zone %s: zero outbound vehicle kilometers; per-VKT indicators are undefined here", z.ID),
				Field:   "vkt",
				Zone:    z.ID,
			})
		}
	}

	return r
}

// ValidateAll runs every stage over a bound dataset and merges the reports.
func ValidateAll(ds *equity.Dataset) *Report {
	r := ValidateTable(ds.Table)
	r.Merge(ValidateMatrix("commute_matrix", ds.Flow, ds.Table))
	r.Merge(ValidateMatrix("distance_matrix", ds.Dist, ds.Table))
	r.Merge(ValidateDataset(ds))
	return r
}
