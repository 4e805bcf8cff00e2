// Package catalog serves the showroom inventory bundled with the binary.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

//go:embed vehicles.yaml
var vehiclesYAML []byte

const (
	DefaultLimit = 10
	MaxLimit     = 20
)

type Catalog struct {
	vehicles []model.Vehicle
}

type document struct {
	Vehicles []model.Vehicle `yaml:"vehicles"`
}

// Query filters the inventory. Empty fields match everything.
type Query struct {
	Body                 string
	Fuel                 string
	Brand                string
	Model                string
	SeatsMin             int
	ExcludeTransmissions []string
	Limit                int
}

// Load parses the embedded inventory.
func Load() (*Catalog, error) {
	return Parse(vehiclesYAML)
}

// MustLoad is Load for process start-up.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse vehicle catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Vehicles))
	for i, v := range doc.Vehicles {
		if v.ID == "" || v.Brand == "" || v.Model == "" {
			return nil, fmt.Errorf("vehicle #%d: id, brand and model are required", i)
		}
		if _, dup := seen[v.ID]; dup {
			return nil, fmt.Errorf("vehicle %s: duplicate id", v.ID)
		}
		seen[v.ID] = struct{}{}
	}
	return &Catalog{vehicles: doc.Vehicles}, nil
}

func (c *Catalog) Len() int {
	return len(c.vehicles)
}

// Search returns matches in catalog order, capped at q.Limit.
func (c *Catalog) Search(q Query) []model.Vehicle {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	out := make([]model.Vehicle, 0, limit)
	for _, v := range c.vehicles {
		if !q.matches(v) {
			continue
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (q Query) matches(v model.Vehicle) bool {
	if !equalOrEmpty(q.Body, v.Body) || !equalOrEmpty(q.Fuel, v.Fuel) || !equalOrEmpty(q.Brand, v.Brand) {
		return false
	}
	if q.Model != "" && !strings.EqualFold(strings.TrimSpace(q.Model), v.Model) &&
		!strings.EqualFold(compact(q.Model), compact(v.Model)) {
		return false
	}
	if q.SeatsMin > 0 && v.Seats < q.SeatsMin {
		return false
	}
	for _, t := range q.ExcludeTransmissions {
		if strings.EqualFold(strings.TrimSpace(t), v.Transmission) {
			return false
		}
	}
	return true
}

func equalOrEmpty(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, got)
}

// compact folds "CR-V", "cr v" and "crv" together.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.ToLower(s))
}
