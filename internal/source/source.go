// Package source turns raw upstream content into canonical gamelines. Each
// upstream layout is one Source implementation, looked up through a closed
// Registry.
package source

import (
	"fmt"
	"log/slog"
	"time"

	"ncaablines/internal/config"
	"ncaablines/internal/model"
)

// Source parses one upstream's raw content into validated gamelines.
type Source interface {
	ID() model.Source
	URL() string
	// Extract parses raw and normalizes every record. now supplies the game
	// day for layouts that carry no date.
	Extract(raw []byte, now time.Time) ([]model.Gameline, error)
}

// Registry is the closed set of fetchable sources.
type Registry struct {
	sources  map[model.Source]Source
	disabled map[model.Source]bool
}

func NewRegistry(sources ...Source) *Registry {
	r := &Registry{
		sources:  make(map[model.Source]Source, len(sources)),
		disabled: make(map[model.Source]bool),
	}
	for _, s := range sources {
		r.sources[s.ID()] = s
	}
	return r
}

// FromConfig registers every enabled source in cfg. Disabled sources are
// remembered so lookups can say why they fail.
func FromConfig(cfg *config.Config) (*Registry, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	defaults := config.DefaultConfig().Sources

	r := NewRegistry()
	for _, id := range model.Sources {
		if id == model.SourceManual {
			continue
		}
		sc, ok := cfg.Source(string(id))
		if !ok || !sc.Enabled {
			r.disabled[id] = true
			continue
		}
		url := sc.URL
		if url == "" {
			url = defaults[string(id)].URL
		}

		var s Source
		switch id {
		case model.SourceDraftKings, model.SourceFanDuel:
			s = NewOddsTable(id, url, loc)
		case model.SourceESPNBets:
			s = NewScoresAPI(id, url)
		default:
			return nil, fmt.Errorf("no parser for source %s", id)
		}
		r.sources[id] = s
	}
	return r, nil
}

// Lookup returns the registered source for id.
func (r *Registry) Lookup(id model.Source) (Source, error) {
	if s, ok := r.sources[id]; ok {
		return s, nil
	}
	switch {
	case id == model.SourceManual:
		return nil, &model.ValidationError{Field: "source", Message: "manual gamelines are submitted, not fetched"}
	case r.disabled[id]:
		return nil, &model.ValidationError{Field: "source", Message: fmt.Sprintf("source %s is disabled", id)}
	default:
		return nil, &model.ValidationError{Field: "source", Message: fmt.Sprintf("source %s is not registered", id)}
	}
}

// Resolve parses a user-supplied name and looks it up.
func (r *Registry) Resolve(name string) (Source, error) {
	id, err := model.ParseSource(name)
	if err != nil {
		return nil, err
	}
	return r.Lookup(id)
}

// IDs lists registered sources in model.Sources order.
func (r *Registry) IDs() []model.Source {
	ids := make([]model.Source, 0, len(r.sources))
	for _, id := range model.Sources {
		if _, ok := r.sources[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// keepValid drops gamelines that fail validation, logging each one.
func keepValid(id model.Source, lines []model.Gameline) []model.Gameline {
	out := lines[:0]
	for _, g := range lines {
		if err := g.Validate(); err != nil {
			slog.Warn("dropping invalid gameline", "source", id, "home", g.Home, "away", g.Away, "error", err)
			continue
		}
		out = append(out, g)
	}
	return out
}
