// Package sweep runs batches of optimization models over the Cartesian
// product of parameter lists, persisting one result record per tuple.
package sweep

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rttri/PoWER/pkg/disparity"
	"github.com/rttri/PoWER/pkg/equity"
	"github.com/rttri/PoWER/pkg/opt"
	"github.com/rttri/PoWER/pkg/region"
)

// Config is the run.yaml sweep specification: input tables, output
// location, and the parameter lists to sweep.
type Config struct {
	Zones          string `yaml:"zones"`
	CommuteMatrix  string `yaml:"commute_matrix"`
	DistanceMatrix string `yaml:"distance_matrix"`
	OutputDir      string `yaml:"output_dir"`

	Indicators  []string  `yaml:"equity_indicators"`
	Groups      []string  `yaml:"demographic_groups"`
	Disparities []string  `yaml:"disparity_indices"`
	Budgets     []float64 `yaml:"max_add_capacities"`
	Weights     []float64 `yaml:"between_weights"`

	ExclusivityFactor float64 `yaml:"exclusivity_factor"`

	TimeLimitSeconds float64 `yaml:"time_limit_seconds"`
	RelGap           float64 `yaml:"rel_gap"`
	SoftStop         bool    `yaml:"soft_stop"`
}

// Load reads a sweep configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing sweep config: %w", err)
	}
	return &cfg, nil
}

// LoadProject loads run.yaml from a project directory, resolving relative
// input and output paths against the directory.
func LoadProject(projectDir string) (*Config, error) {
	cfg, err := Load(filepath.Join(projectDir, "run.yaml"))
	if err != nil {
		return nil, err
	}
	for _, p := range []*string{&cfg.Zones, &cfg.CommuteMatrix, &cfg.DistanceMatrix, &cfg.OutputDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(projectDir, *p)
		}
	}
	return cfg, nil
}

// LoadDataset loads and binds the three input tables named by the config.
func (c *Config) LoadDataset() (*equity.Dataset, error) {
	table, err := region.LoadZones(c.Zones)
	if err != nil {
		return nil, err
	}
	flow, err := region.LoadMatrix(c.CommuteMatrix, table)
	if err != nil {
		return nil, err
	}
	dist, err := region.LoadMatrix(c.DistanceMatrix, table)
	if err != nil {
		return nil, err
	}
	return equity.NewDataset(table, flow, dist)
}

// TimeLimit returns the per-tuple solver time limit.
func (c *Config) TimeLimit() time.Duration {
	if c.TimeLimitSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeLimitSeconds * float64(time.Second))
}

// Params is one immutable parameter tuple of a sweep.
type Params struct {
	Indicator   equity.Indicator
	Group       region.Attribute
	Disparity   disparity.Index
	Budget      float64
	Weight      float64
	Exclusivity float64
}

// Key encodes all parameter values into a collision-free file stem.
func (p Params) Key() string {
	return fmt.Sprintf("result_val_%s_%s_%s_%g_%g_%g",
		p.Indicator, p.Group, p.Disparity, p.Budget, p.Weight, p.Exclusivity)
}

// Config converts the tuple into a model-builder configuration.
func (p Params) Config() opt.Config {
	return opt.Config{
		Indicator:         p.Indicator,
		Group:             p.Group,
		Disparity:         p.Disparity,
		MaxAddCapacity:    p.Budget,
		BetweenWeight:     p.Weight,
		ExclusivityFactor: p.Exclusivity,
	}
}

// Tuples parses the parameter lists and expands their Cartesian product
// in a fixed order: indicator, group, disparity, budget, weight. Unknown
// names fail here, before any model is built.
func (c *Config) Tuples() ([]Params, error) {
	if len(c.Indicators) == 0 || len(c.Groups) == 0 || len(c.Disparities) == 0 ||
		len(c.Budgets) == 0 || len(c.Weights) == 0 {
		return nil, fmt.Errorf("sweep config: every parameter list must be non-empty")
	}

	indicators := make([]equity.Indicator, len(c.Indicators))
	for i, s := range c.Indicators {
		ind, err := equity.ParseIndicator(s)
		if err != nil {
			return nil, err
		}
		indicators[i] = ind
	}
	groups := make([]region.Attribute, len(c.Groups))
	for i, s := range c.Groups {
		attr, err := region.ParseAttribute(s)
		if err != nil {
			return nil, err
		}
		groups[i] = attr
	}
	indices := make([]disparity.Index, len(c.Disparities))
	for i, s := range c.Disparities {
		idx, err := disparity.Parse(s)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}

	var tuples []Params
	for _, ind := range indicators {
		for _, grp := range groups {
			for _, idx := range indices {
				for _, budget := range c.Budgets {
					for _, w := range c.Weights {
						tuples = append(tuples, Params{
							Indicator:   ind,
							Group:       grp,
							Disparity:   idx,
							Budget:      budget,
							Weight:      w,
							Exclusivity: c.ExclusivityFactor,
						})
					}
				}
			}
		}
	}
	return tuples, nil
}
