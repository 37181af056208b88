package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ncaablines/internal/model"
)

// Envelope is the export file format. Import accepts exactly this shape.
type Envelope struct {
	Sport           string           `json:"sport"`
	ExportTimestamp string           `json:"export_timestamp"`
	TotalGames      int              `json:"total_games"`
	Gamelines       []model.Gameline `json:"gamelines"`
}

// ImportReport says how much of an import was applied. Records are upserted
// one by one, so a partial import is possible and is reported here.
type ImportReport struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

// Exporter moves the whole gameline set to and from JSON files.
type Exporter struct {
	store Gamelines
	sport string
	now   func() time.Time
}

func NewExporter(store Gamelines, sport string) *Exporter {
	return &Exporter{store: store, sport: sport, now: time.Now}
}

// exportStamp keeps file names unique down to the millisecond.
const exportStamp = "20060102T150405.000Z"

// Encode writes every stored gameline to w as an Envelope.
func (e *Exporter) Encode(ctx context.Context, w io.Writer) (int, error) {
	lines, err := e.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading gamelines: %w", err)
	}

	env := Envelope{
		Sport:           e.sport,
		ExportTimestamp: e.now().UTC().Format(time.RFC3339Nano),
		TotalGames:      len(lines),
		Gamelines:       lines,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return 0, fmt.Errorf("encoding export: %w", err)
	}
	return len(lines), nil
}

// FileName is the name Export gives a file written at t.
func (e *Exporter) FileName(t time.Time) string {
	return fmt.Sprintf("%s_gamelines_%s.json", e.sport, t.UTC().Format(exportStamp))
}

// Export writes every stored gameline into a new file in dir and returns its
// path.
func (e *Exporter) Export(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, e.FileName(e.now()))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}

	n, err := e.Encode(ctx, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing export file: %w", cerr)
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}

	slog.Info("exported gamelines", "path", path, "count", n)
	return path, nil
}

// Import reads an Envelope from r and upserts every gameline in it. A
// malformed envelope is a *model.ValidationError and nothing is written.
func (e *Exporter) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	env, err := decodeEnvelope(r)
	if err != nil {
		return ImportReport{}, err
	}
	if env.Sport != e.sport {
		return ImportReport{}, &model.ValidationError{Field: "sport", Message: fmt.Sprintf("export is for %q, not %q", env.Sport, e.sport)}
	}

	report := ImportReport{Errors: []string{}}
	for i, g := range env.Gamelines {
		if err := e.store.Upsert(ctx, g); err != nil {
			// Storage failures are not per-record problems.
			if model.KindOf(err) == model.KindInternal {
				return report, fmt.Errorf("importing gameline %d: %w", i, err)
			}
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("gameline %d: %v", i, err))
			continue
		}
		report.Imported++
	}

	slog.Info("imported gamelines", "imported", report.Imported, "failed", report.Failed)
	return report, nil
}

// ImportFile opens path and imports it.
func (e *Exporter) ImportFile(ctx context.Context, path string) (ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()
	return e.Import(ctx, f)
}

func decodeEnvelope(r io.Reader) (Envelope, error) {
	// Gamelines is decoded raw first so a missing array can be told apart
	// from an empty one.
	var raw struct {
		Sport           string           `json:"sport"`
		ExportTimestamp string           `json:"export_timestamp"`
		TotalGames      *int             `json:"total_games"`
		Gamelines       *json.RawMessage `json:"gamelines"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		if errors.As(err, &syn) || errors.As(err, &typ) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Envelope{}, &model.ValidationError{Field: "envelope", Message: "not a gameline export: " + err.Error()}
		}
		return Envelope{}, fmt.Errorf("reading import: %w", err)
	}

	switch {
	case raw.Sport == "":
		return Envelope{}, &model.ValidationError{Field: "sport", Message: "sport is required"}
	case raw.Gamelines == nil:
		return Envelope{}, &model.ValidationError{Field: "gamelines", Message: "gamelines array is required"}
	case raw.TotalGames == nil:
		return Envelope{}, &model.ValidationError{Field: "total_games", Message: "total_games is required"}
	}
	if _, err := time.Parse(time.RFC3339Nano, raw.ExportTimestamp); err != nil {
		return Envelope{}, &model.ValidationError{Field: "export_timestamp", Message: fmt.Sprintf("%q is not an ISO-8601 timestamp", raw.ExportTimestamp)}
	}

	var lines []model.Gameline
	if err := json.Unmarshal(*raw.Gamelines, &lines); err != nil {
		return Envelope{}, &model.ValidationError{Field: "gamelines", Message: "gamelines is not an array of gamelines: " + err.Error()}
	}
	if lines == nil {
		return Envelope{}, &model.ValidationError{Field: "gamelines", Message: "gamelines must be an array"}
	}
	if *raw.TotalGames != len(lines) {
		return Envelope{}, &model.ValidationError{
			Field:   "total_games",
			Message: fmt.Sprintf("total_games is %d but %d gamelines are present", *raw.TotalGames, len(lines)),
		}
	}

	return Envelope{
		Sport:           raw.Sport,
		ExportTimestamp: raw.ExportTimestamp,
		TotalGames:      *raw.TotalGames,
		Gamelines:       lines,
	}, nil
}
