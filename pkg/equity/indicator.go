package equity

import "fmt"

// Indicator names a per-zone charger-access ratio: a charger metric divided
// by a normalizer. The eq_ variants use the commuter-redistributed
// workplace capacity in the numerator.
type Indicator string

const (
	CharPerCapita         Indicator = "char_per_capita"
	CharCapacityPerCapita Indicator = "char_capacity_per_capita"
	CharPerVeh            Indicator = "char_per_veh"
	CharCapacityPerCar    Indicator = "char_capacity_per_car"
	CharPerVKTOut         Indicator = "char_per_VKT_out"
	CharCapacityPerVKTOut Indicator = "char_capacity_per_VKT_out"

	EqCharPerCapita         Indicator = "eq_char_per_capita"
	EqCharCapacityPerCapita Indicator = "eq_char_capacity_per_capita"
	EqCharPerVeh            Indicator = "eq_char_per_veh"
	EqCharCapacityPerCar    Indicator = "eq_char_capacity_per_car"
	EqCharPerVKTOut         Indicator = "eq_char_per_VKT_out"
	EqCharCapacityPerVKTOut Indicator = "eq_char_capacity_per_VKT_out"

	// Inbound-VKT normalizers exist only for the equivalent variant, where
	// workplace access is what the redistribution models.
	EqCharPerVKTIn         Indicator = "eq_char_per_VKT_in"
	EqCharCapacityPerVKTIn Indicator = "eq_char_capacity_per_VKT_in"
)

// indicatorDef maps an indicator onto its numerator and denominator
// accessors. Group aggregation always sums numerators and denominators
// separately before dividing.
type indicatorDef struct {
	num func(ds *Dataset, i int) float64
	den func(ds *Dataset, i int) float64
}

func population(ds *Dataset, i int) float64 { return ds.Table.Zones[i].Population }
func vehicles(ds *Dataset, i int) float64   { return ds.Table.Zones[i].Vehicles }
func vktOut(ds *Dataset, i int) float64     { return ds.VKTOut(i) }
func vktIn(ds *Dataset, i int) float64      { return ds.VKTIn(i) }

var indicatorTable = map[Indicator]indicatorDef{
	CharPerCapita:         {num: (*Dataset).TotalCharNum, den: population},
	CharCapacityPerCapita: {num: (*Dataset).TotalCharCapacity, den: population},
	CharPerVeh:            {num: (*Dataset).TotalCharNum, den: vehicles},
	CharCapacityPerCar:    {num: (*Dataset).TotalCharCapacity, den: vehicles},
	CharPerVKTOut:         {num: (*Dataset).TotalCharNum, den: vktOut},
	CharCapacityPerVKTOut: {num: (*Dataset).TotalCharCapacity, den: vktOut},

	EqCharPerCapita:         {num: (*Dataset).EqTotalCharNum, den: population},
	EqCharCapacityPerCapita: {num: (*Dataset).EqTotalCharCapacity, den: population},
	EqCharPerVeh:            {num: (*Dataset).EqTotalCharNum, den: vehicles},
	EqCharCapacityPerCar:    {num: (*Dataset).EqTotalCharCapacity, den: vehicles},
	EqCharPerVKTOut:         {num: (*Dataset).EqTotalCharNum, den: vktOut},
	EqCharCapacityPerVKTOut: {num: (*Dataset).EqTotalCharCapacity, den: vktOut},
	EqCharPerVKTIn:          {num: (*Dataset).EqTotalCharNum, den: vktIn},
	EqCharCapacityPerVKTIn:  {num: (*Dataset).EqTotalCharCapacity, den: vktIn},
}

// Indicators returns the standard (non-equivalent) indicators in a fixed order.
func Indicators() []Indicator {
	return []Indicator{
		CharPerCapita, CharCapacityPerCapita,
		CharPerVeh, CharCapacityPerCar,
		CharPerVKTOut, CharCapacityPerVKTOut,
	}
}

// EquivalentIndicators returns the eq_ indicators in a fixed order,
// including the inbound-VKT variants that have no standard counterpart.
func EquivalentIndicators() []Indicator {
	return []Indicator{
		EqCharPerCapita, EqCharCapacityPerCapita,
		EqCharPerVeh, EqCharCapacityPerCar,
		EqCharPerVKTOut, EqCharCapacityPerVKTOut,
		EqCharPerVKTIn, EqCharCapacityPerVKTIn,
	}
}

// ParseIndicator converts a string into an Indicator.
func ParseIndicator(s string) (Indicator, error) {
	if _, ok := indicatorTable[Indicator(s)]; ok {
		return Indicator(s), nil
	}
	return "", fmt.Errorf("%w: unknown equity indicator %q", ErrInvalidArgument, s)
}

// IsEquivalent reports whether the indicator uses redistributed workplace
// capacity.
func (ind Indicator) IsEquivalent() bool {
	switch ind {
	case EqCharPerCapita, EqCharCapacityPerCapita, EqCharPerVeh,
		EqCharCapacityPerCar, EqCharPerVKTOut, EqCharCapacityPerVKTOut,
		EqCharPerVKTIn, EqCharCapacityPerVKTIn:
		return true
	}
	return false
}

// Denominator returns the indicator's normalizer for one zone.
func (ind Indicator) Denominator(ds *Dataset, i int) (float64, error) {
	def, ok := indicatorTable[ind]
	if !ok {
		return 0, fmt.Errorf("%w: unknown equity indicator %q", ErrInvalidArgument, ind)
	}
	return def.den(ds, i), nil
}
