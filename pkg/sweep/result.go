package sweep

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rttri/PoWER/pkg/opt"
)

// Record is the persisted outcome of one parameter tuple.
type Record struct {
	Indicator   string  `json:"equity_indicator"`
	Group       string  `json:"demographic_group"`
	Disparity   string  `json:"disparity_index"`
	Budget      float64 `json:"max_add_capacity"`
	Weight      float64 `json:"between_weight"`
	Exclusivity float64 `json:"exclusivity_factor"`

	Status   string `json:"status"`
	Optimal  bool   `json:"optimal"`
	Feasible bool   `json:"feasible"`

	Objective float64 `json:"objective"`
	Between   float64 `json:"between_disparity"`
	Within    float64 `json:"within_disparity"`

	ZoneIDs       []string  `json:"zone_ids,omitempty"`
	Added         []float64 `json:"added_capacity,omitempty"`
	EquivalentCap []float64 `json:"equivalent_capacity,omitempty"`
	Indicators    []float64 `json:"indicator_values,omitempty"`

	Runtime float64 `json:"runtime_seconds"`
}

// NewRecord combines one tuple with its solve outcome.
func NewRecord(p Params, res *opt.Result, zoneIDs []string, runtime time.Duration) Record {
	rec := Record{
		Indicator:   string(p.Indicator),
		Group:       string(p.Group),
		Disparity:   string(p.Disparity),
		Budget:      p.Budget,
		Weight:      p.Weight,
		Exclusivity: p.Exclusivity,
		Status:      res.Status.String(),
		Optimal:     res.Optimal,
		Feasible:    res.Feasible,
		Runtime:     runtime.Seconds(),
	}
	if res.Feasible {
		rec.Objective = res.Objective
		rec.Between = res.Between
		rec.Within = res.Within
		rec.ZoneIDs = zoneIDs
		rec.Added = res.Added
		rec.EquivalentCap = res.EquivalentCap
		rec.Indicators = res.Indicator
	}
	return rec
}

// Write persists the record as <key>.json under dir.
func (r Record) Write(dir string, p Params) (string, error) {
	path := filepath.Join(dir, p.Key()+".json")
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding record %s: %w", p.Key(), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing record %s: %w", p.Key(), err)
	}
	return path, nil
}

// Manifest summarizes a finished sweep: the run identity, the swept
// parameter lists, and the per-tuple record files.
type Manifest struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Indicators  []string  `json:"equity_indicators"`
	Groups      []string  `json:"demographic_groups"`
	Disparities []string  `json:"disparity_indices"`
	Budgets     []float64 `json:"max_add_capacities"`
	Weights     []float64 `json:"between_weights"`
	Exclusivity float64   `json:"exclusivity_factor"`

	Tuples     int      `json:"tuples"`
	Feasible   int      `json:"feasible"`
	Infeasible int      `json:"infeasible"`
	Files      []string `json:"files"`
}

func newManifest(cfg *Config) *Manifest {
	return &Manifest{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		Indicators:  cfg.Indicators,
		Groups:      cfg.Groups,
		Disparities: cfg.Disparities,
		Budgets:     cfg.Budgets,
		Weights:     cfg.Weights,
		Exclusivity: cfg.ExclusivityFactor,
	}
}

// Write persists the manifest as manifest.json under dir.
func (m *Manifest) Write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
