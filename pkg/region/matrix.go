package region

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a square, zone-indexed matrix whose row and column order match
// a Table. Rows index residence zones, columns index workplace zones.
type Matrix struct {
	IDs  []string
	Data *mat.Dense
}

// NewMatrix wraps dense data with its identifier order after checking shape.
func NewMatrix(ids []string, data *mat.Dense) (*Matrix, error) {
	r, c := data.Dims()
	if r != c {
		return nil, fmt.Errorf("matrix must be square, got %dx%d", r, c)
	}
	if r != len(ids) {
		return nil, fmt.Errorf("matrix has %d rows but %d identifiers", r, len(ids))
	}
	return &Matrix{IDs: ids, Data: data}, nil
}

// Len returns the matrix dimension.
func (m *Matrix) Len() int { return len(m.IDs) }

// At returns one entry.
func (m *Matrix) At(i, j int) float64 { return m.Data.At(i, j) }

// CheckAlignment verifies the matrix index set equals the table's zone set
// in the same order.
func (m *Matrix) CheckAlignment(t *Table) error {
	if m.Len() != t.Len() {
		return fmt.Errorf("matrix dimension %d does not match zone count %d", m.Len(), t.Len())
	}
	for i, id := range m.IDs {
		if t.Zones[i].ID != id {
			return fmt.Errorf("matrix row %d keyed by %q, zone table has %q", i, id, t.Zones[i].ID)
		}
	}
	return nil
}

// RowSums returns per-row totals (outbound direction for a flow matrix).
func (m *Matrix) RowSums() []float64 {
	n := m.Len()
	sums := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sums[i] += m.Data.At(i, j)
		}
	}
	return sums
}

// ColSums returns per-column totals (inbound direction for a flow matrix).
func (m *Matrix) ColSums() []float64 {
	n := m.Len()
	sums := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sums[j] += m.Data.At(i, j)
		}
	}
	return sums
}

// VKT forms the vehicle-kilometers-traveled matrix as the element-wise
// product of a commute flow matrix and a distance matrix.
func VKT(flow, dist *Matrix) (*Matrix, error) {
	if flow.Len() != dist.Len() {
		return nil, fmt.Errorf("flow dimension %d does not match distance dimension %d", flow.Len(), dist.Len())
	}
	for i, id := range flow.IDs {
		if dist.IDs[i] != id {
			return nil, fmt.Errorf("flow row %d keyed by %q, distance matrix has %q", i, id, dist.IDs[i])
		}
	}
	var prod mat.Dense
	prod.MulElem(flow.Data, dist.Data)
	ids := make([]string, len(flow.IDs))
	copy(ids, flow.IDs)
	return &Matrix{IDs: ids, Data: &prod}, nil
}
