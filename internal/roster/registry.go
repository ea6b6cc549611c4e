// Package roster holds the canonical in-memory view of the selectable
// player pool for a single solve.
package roster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
)

var (
	// ErrUnknownCandidate marks a lookup for an id or name not in the pool.
	ErrUnknownCandidate = errors.New("unknown candidate")
	// ErrAmbiguousName marks a name shared by more than one candidate.
	// Callers must fall back to ids; the registry never guesses.
	ErrAmbiguousName = errors.New("ambiguous candidate name")
)

// Entry is a candidate enriched with its precomputed weighted projection:
// (points + adjust) x country weight.
type Entry struct {
	models.Candidate
	Weighted float64
}

// Registry indexes a validated dataset by id, name, country and position.
// It is immutable once built; a solve never mutates it.
type Registry struct {
	dataset    *models.Dataset
	byID       map[string]*Entry
	byName     map[string][]string
	byCountry  map[string][]*Entry
	byPosition map[models.Position][]*Entry
	ids        []string
}

// New builds a registry from a validated dataset. Duplicate display names are
// tolerated but logged; they only matter if a caller later resolves by name.
func New(ds *models.Dataset, log *logrus.Logger) (*Registry, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		dataset:    ds,
		byID:       make(map[string]*Entry, len(ds.Players)+1),
		byName:     make(map[string][]string),
		byCountry:  make(map[string][]*Entry),
		byPosition: make(map[models.Position][]*Entry),
	}

	add := func(c models.Candidate) {
		entry := &Entry{
			Candidate: c,
			Weighted:  c.BasePoints() * ds.Weight(c.Country),
		}
		r.byID[c.ID] = entry
		r.byName[c.Name] = append(r.byName[c.Name], c.ID)
		r.byCountry[c.Country] = append(r.byCountry[c.Country], entry)
		r.byPosition[c.Position] = append(r.byPosition[c.Position], entry)
		r.ids = append(r.ids, c.ID)
	}

	for _, player := range ds.Players {
		add(player)
	}
	if ds.Supersub != nil {
		add(*ds.Supersub)
	}
	sort.Strings(r.ids)

	if log != nil {
		for name, ids := range r.byName {
			if len(ids) > 1 {
				log.WithFields(logrus.Fields{
					"name": name,
					"ids":  ids,
				}).Warn("Duplicate candidate name; name lookups for it will be rejected")
			}
		}
	}

	return r, nil
}

// Budget returns the configured budget ceiling.
func (r *Registry) Budget() float64 {
	return r.dataset.Budget
}

// Gameweek returns the round this dataset describes.
func (r *Registry) Gameweek() int {
	return r.dataset.Gameweek
}

// Get returns the entry for an id.
func (r *Registry) Get(id string) (*Entry, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// ResolveName maps a display name to an id. Unknown names and names shared by
// several candidates are errors, never best-effort matches.
func (r *Registry) ResolveName(name string) (string, error) {
	ids, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCandidate, name)
	}
	if len(ids) > 1 {
		return "", fmt.Errorf("%w: %s matches %d candidates", ErrAmbiguousName, name, len(ids))
	}
	return ids[0], nil
}

// Resolve accepts either an id or a unique display name.
func (r *Registry) Resolve(idOrName string) (*Entry, error) {
	if e, ok := r.byID[idOrName]; ok {
		return e, nil
	}
	id, err := r.ResolveName(idOrName)
	if err != nil {
		return nil, err
	}
	return r.byID[id], nil
}

// Candidates returns every entry in stable id order.
func (r *Registry) Candidates() []*Entry {
	entries := make([]*Entry, 0, len(r.ids))
	for _, id := range r.ids {
		entries = append(entries, r.byID[id])
	}
	return entries
}

// ByCountry returns the entries affiliated with a country.
func (r *Registry) ByCountry(country string) []*Entry {
	return r.byCountry[country]
}

// ByPosition returns the entries playing a position category.
func (r *Registry) ByPosition(pos models.Position) []*Entry {
	return r.byPosition[pos]
}

// Countries returns every country present in the pool, sorted.
func (r *Registry) Countries() []string {
	countries := make([]string, 0, len(r.byCountry))
	for country := range r.byCountry {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}
