package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// Dataset is the canonical input document for a solve: a budget, per-country
// difficulty weights, the selectable player pool, and an optional dedicated
// bench specialist.
type Dataset struct {
	Gameweek       int                  `json:"gameweek,omitempty"`
	Budget         float64              `json:"budget"`
	CountryWeights map[string]float64   `json:"country_weights"`
	Players        map[string]Candidate `json:"players"`
	Supersub       *Candidate           `json:"supersub,omitempty"`
}

// Validate checks the whole document and normalizes it: map keys become the
// canonical candidate IDs, and a supersub with no stated availability is
// treated as bench-only.
func (d *Dataset) Validate() error {
	if d.Budget < 0 {
		return fmt.Errorf("negative budget %.2f", d.Budget)
	}
	for country, weight := range d.CountryWeights {
		if weight <= 0 {
			return fmt.Errorf("country %s: weight must be positive, got %g", country, weight)
		}
	}
	for id, player := range d.Players {
		if player.ID == "" {
			player.ID = id
		} else if player.ID != id {
			return fmt.Errorf("player keyed %s carries conflicting id %s", id, player.ID)
		}
		if err := player.Validate(); err != nil {
			return err
		}
		d.Players[id] = player
	}
	if d.Supersub != nil {
		if d.Supersub.Availability == "" {
			d.Supersub.Availability = AvailabilityOnAsSub
		}
		if d.Supersub.ID == "" {
			d.Supersub.ID = d.Supersub.Name
		}
		if err := d.Supersub.Validate(); err != nil {
			return fmt.Errorf("supersub: %w", err)
		}
		if _, exists := d.Players[d.Supersub.ID]; exists {
			return fmt.Errorf("supersub %s duplicates a player id", d.Supersub.ID)
		}
	}
	return nil
}

// Weight returns the difficulty weight for a country; absent countries
// default to 1.
func (d *Dataset) Weight(country string) float64 {
	if w, ok := d.CountryWeights[country]; ok {
		return w
	}
	return 1.0
}

// LoadDataset reads and validates a dataset snapshot from disk.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	return &ds, nil
}
