package region

import (
	"errors"
	"fmt"
)

// Attribute selects one of the categorical demographic partitions of the
// zone set. Every zone carries exactly one label per attribute.
type Attribute string

const (
	IncomeLevel     Attribute = "income_level"
	MUDLevel        Attribute = "mud_level"
	EmploymentLevel Attribute = "employment_level"
	MajorEthnicity  Attribute = "major_ethnicity"
)

// ErrUnknownAttribute is returned for attribute names outside the
// recognized set.
var ErrUnknownAttribute = errors.New("unknown demographic attribute")

// Attributes returns the recognized demographic attributes in a fixed order.
func Attributes() []Attribute {
	return []Attribute{IncomeLevel, MUDLevel, EmploymentLevel, MajorEthnicity}
}

// ParseAttribute converts a string into an Attribute.
func ParseAttribute(s string) (Attribute, error) {
	for _, a := range Attributes() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, s)
}

// Zone is one census tract, the atomic spatial unit of analysis.
type Zone struct {
	ID         string
	Population float64
	Vehicles   float64

	// Existing charger inventory, split by siting.
	CharNumHome      float64
	CharNumNotHome   float64
	CharCapHome      float64
	CharCapNotHome   float64
	WorkplaceCharNum float64
	WorkplaceCharCap float64

	// Workers employed in this zone, counted over all residence zones.
	WorkPopu float64

	// Categorical demographic labels.
	IncomeLevel     string
	MUDLevel        string
	EmploymentLevel string
	MajorEthnicity  string

	Disadvantaged bool
}

// Label returns the zone's label for the given attribute.
func (z *Zone) Label(attr Attribute) (string, error) {
	switch attr {
	case IncomeLevel:
		return z.IncomeLevel, nil
	case MUDLevel:
		return z.MUDLevel, nil
	case EmploymentLevel:
		return z.EmploymentLevel, nil
	case MajorEthnicity:
		return z.MajorEthnicity, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
}

// Table is an ordered, immutable set of zones. Zone order fixes the row and
// column order of every matrix aligned to the table.
type Table struct {
	Zones []Zone

	index map[string]int
}

// NewTable builds a table from zones, enforcing the core zone invariants:
// unique identifiers, population > 0, vehicle count >= 0.
func NewTable(zones []Zone) (*Table, error) {
	if len(zones) == 0 {
		return nil, errors.New("zone table is empty")
	}
	index := make(map[string]int, len(zones))
	for i, z := range zones {
		if z.ID == "" {
			return nil, fmt.Errorf("zone %d: empty identifier", i)
		}
		if _, dup := index[z.ID]; dup {
			return nil, fmt.Errorf("duplicate zone identifier %q", z.ID)
		}
		if z.Population <= 0 {
			return nil, fmt.Errorf("zone %s: population must be positive, got %g", z.ID, z.Population)
		}
		if z.Vehicles < 0 {
			return nil, fmt.Errorf("zone %s: vehicle count must be non-negative, got %g", z.ID, z.Vehicles)
		}
		index[z.ID] = i
	}
	return &Table{Zones: zones, index: index}, nil
}

// Len returns the number of zones.
func (t *Table) Len() int { return len(t.Zones) }

// IndexOf returns the position of a zone identifier in table order.
func (t *Table) IndexOf(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// IDs returns the zone identifiers in table order.
func (t *Table) IDs() []string {
	ids := make([]string, len(t.Zones))
	for i := range t.Zones {
		ids[i] = t.Zones[i].ID
	}
	return ids
}

// Group is one cell of a demographic partition: the zones sharing a label.
type Group struct {
	Label   string
	Members []int
}

// Groups partitions the zone indices by the given attribute. Groups appear
// in order of first occurrence, so the partition is deterministic for a
// fixed table. Membership is exhaustive and mutually exclusive.
func (t *Table) Groups(attr Attribute) ([]Group, error) {
	var groups []Group
	pos := make(map[string]int)
	for i := range t.Zones {
		label, err := t.Zones[i].Label(attr)
		if err != nil {
			return nil, err
		}
		if label == "" {
			return nil, fmt.Errorf("zone %s: empty %s label", t.Zones[i].ID, attr)
		}
		g, ok := pos[label]
		if !ok {
			g = len(groups)
			pos[label] = g
			groups = append(groups, Group{Label: label})
		}
		groups[g].Members = append(groups[g].Members, i)
	}
	return groups, nil
}
