// Package equity derives per-zone charger-access indicators and evaluates
// their disparity across demographic groups.
package equity

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/rttri/PoWER/pkg/region"
)

// KWPerCharger converts between charger counts and charging capacity for
// workplace inventories reported in only one of the two units.
const KWPerCharger = 13.0

// ErrInvalidArgument classifies requests naming an indicator, attribute,
// or disparity index outside the supported sets.
var ErrInvalidArgument = errors.New("invalid argument")

// Dataset binds a zone table to its commute, distance, and VKT matrices
// and precomputes the derived per-zone columns used by both the evaluator
// and the optimization model builder. A dataset is read-only once built.
type Dataset struct {
	Table *region.Table
	Flow  *region.Matrix
	Dist  *region.Matrix
	VKT   *region.Matrix

	vktOut []float64
	vktIn  []float64

	totalCharNum    []float64
	totalCharCap    []float64
	eqWorkplaceCap  []float64
	eqTotalCharNum  []float64
	eqTotalCharCap  []float64
	carOwnershipRat []float64
}

// NewDataset validates matrix alignment and computes derived columns,
// including the equivalent workplace capacity obtained by redistributing
// each workplace zone's capacity over residence zones in proportion to
// commuter shares.
func NewDataset(t *region.Table, flow, dist *region.Matrix) (*Dataset, error) {
	if err := flow.CheckAlignment(t); err != nil {
		return nil, fmt.Errorf("commute flow matrix: %w", err)
	}
	if err := dist.CheckAlignment(t); err != nil {
		return nil, fmt.Errorf("distance matrix: %w", err)
	}
	vkt, err := region.VKT(flow, dist)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Table: t, Flow: flow, Dist: dist, VKT: vkt}
	n := t.Len()

	ds.vktOut = vkt.RowSums()
	ds.vktIn = vkt.ColSums()

	ds.totalCharNum = make([]float64, n)
	ds.totalCharCap = make([]float64, n)
	ds.carOwnershipRat = make([]float64, n)
	wpCap := make([]float64, n)
	for i := range t.Zones {
		z := &t.Zones[i]
		wpCap[i] = z.WorkplaceCharCap
		if wpCap[i] == 0 && z.WorkplaceCharNum != 0 {
			wpCap[i] = z.WorkplaceCharNum * KWPerCharger
		}
		ds.totalCharNum[i] = z.CharNumHome + z.CharNumNotHome + z.WorkplaceCharNum
		ds.totalCharCap[i] = z.CharCapHome + z.CharCapNotHome + wpCap[i]
		ds.carOwnershipRat[i] = z.Vehicles / z.Population
	}

	ds.eqWorkplaceCap, err = redistribute(flow, wpCap)
	if err != nil {
		return nil, err
	}

	ds.eqTotalCharNum = make([]float64, n)
	ds.eqTotalCharCap = make([]float64, n)
	for i := range t.Zones {
		z := &t.Zones[i]
		ds.eqTotalCharNum[i] = z.CharNumHome + z.CharNumNotHome + ds.eqWorkplaceCap[i]/KWPerCharger
		ds.eqTotalCharCap[i] = z.CharCapHome + z.CharCapNotHome + ds.eqWorkplaceCap[i]
	}

	return ds, nil
}

// redistribute maps workplace capacity onto residence zones through the
// column-normalized flow matrix: each workplace zone's capacity is split
// across residence zones by their share of its commuters. A workplace zone
// with capacity but no inbound commuters is rejected: its capacity would
// silently vanish from the redistribution.
func redistribute(flow *region.Matrix, capacity []float64) ([]float64, error) {
	n := flow.Len()
	colSums := flow.ColSums()

	shares := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		if colSums[j] == 0 {
			if capacity[j] != 0 {
				return nil, fmt.Errorf("workplace zone %s has capacity %g but no inbound commuters: %w",
					flow.IDs[j], capacity[j], ErrInvalidArgument)
			}
			continue
		}
		for i := 0; i < n; i++ {
			shares.Set(i, j, flow.At(i, j)/colSums[j])
		}
	}

	capVec := mat.NewVecDense(n, capacity)
	var out mat.VecDense
	out.MulVec(shares, capVec)

	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = out.AtVec(i)
	}
	return result, nil
}

// Zone accessors used by the indicator dispatch table and the model builder.

// TotalCharNum is the zone's charger count over all sitings.
func (ds *Dataset) TotalCharNum(i int) float64 { return ds.totalCharNum[i] }

// TotalCharCapacity is the zone's charging capacity over all sitings.
func (ds *Dataset) TotalCharCapacity(i int) float64 { return ds.totalCharCap[i] }

// EqTotalCharNum is the charger count with workplace chargers replaced by
// their commuter-redistributed equivalent.
func (ds *Dataset) EqTotalCharNum(i int) float64 { return ds.eqTotalCharNum[i] }

// EqTotalCharCapacity is the capacity with workplace capacity replaced by
// its commuter-redistributed equivalent.
func (ds *Dataset) EqTotalCharCapacity(i int) float64 { return ds.eqTotalCharCap[i] }

// EqWorkplaceCapacity is the redistributed workplace capacity alone.
func (ds *Dataset) EqWorkplaceCapacity(i int) float64 { return ds.eqWorkplaceCap[i] }

// VKTOut is the zone's outbound vehicle-kilometers traveled.
func (ds *Dataset) VKTOut(i int) float64 { return ds.vktOut[i] }

// VKTIn is the zone's inbound vehicle-kilometers traveled.
func (ds *Dataset) VKTIn(i int) float64 { return ds.vktIn[i] }

// CarOwnershipRate is vehicles per resident.
func (ds *Dataset) CarOwnershipRate(i int) float64 { return ds.carOwnershipRat[i] }

// WorkPopu is the zone's workplace population from the zone table.
func (ds *Dataset) WorkPopu(i int) float64 { return ds.Table.Zones[i].WorkPopu }
