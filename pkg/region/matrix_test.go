package region

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func testMatrix(t *testing.T, ids []string, data []float64) *Matrix {
	t.Helper()
	n := len(ids)
	m, err := NewMatrix(ids, mat.NewDense(n, n, data))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMatrixShape(t *testing.T) {
	if _, err := NewMatrix([]string{"a", "b"}, mat.NewDense(2, 3, nil)); err == nil {
		t.Error("expected error for non-square data")
	}
	if _, err := NewMatrix([]string{"a"}, mat.NewDense(2, 2, nil)); err == nil {
		t.Error("expected error for identifier count mismatch")
	}
}

func TestCheckAlignment(t *testing.T) {
	table, err := NewTable(testZones())
	if err != nil {
		t.Fatal(err)
	}
	ids := table.IDs()

	m := testMatrix(t, ids, make([]float64, 9))
	if err := m.CheckAlignment(table); err != nil {
		t.Errorf("aligned matrix rejected: %v", err)
	}

	swapped := []string{ids[1], ids[0], ids[2]}
	m2 := testMatrix(t, swapped, make([]float64, 9))
	if err := m2.CheckAlignment(table); err == nil {
		t.Error("expected error for permuted keys")
	}

	m3 := testMatrix(t, ids[:2], make([]float64, 4))
	if err := m3.CheckAlignment(table); err == nil {
		t.Error("expected error for dimension mismatch")
	}
}

func TestRowColSums(t *testing.T) {
	m := testMatrix(t, []string{"a", "b"}, []float64{1, 2, 3, 4})

	rows := m.RowSums()
	if rows[0] != 3 || rows[1] != 7 {
		t.Errorf("RowSums = %v, want [3 7]", rows)
	}
	cols := m.ColSums()
	if cols[0] != 4 || cols[1] != 6 {
		t.Errorf("ColSums = %v, want [4 6]", cols)
	}
}

func TestVKT(t *testing.T) {
	flow := testMatrix(t, []string{"a", "b"}, []float64{10, 20, 30, 40})
	dist := testMatrix(t, []string{"a", "b"}, []float64{1, 2.5, 0.5, 3})

	vkt, err := VKT(flow, dist)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{10, 50, 15, 120}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if got := vkt.At(i, j); math.Abs(got-want[i*2+j]) > 1e-12 {
				t.Errorf("vkt[%d,%d] = %g, want %g", i, j, got, want[i*2+j])
			}
		}
	}
}

func TestVKTKeyMismatch(t *testing.T) {
	flow := testMatrix(t, []string{"a", "b"}, make([]float64, 4))
	dist := testMatrix(t, []string{"b", "a"}, make([]float64, 4))
	if _, err := VKT(flow, dist); err == nil {
		t.Error("expected error for mismatched key order")
	}
}
