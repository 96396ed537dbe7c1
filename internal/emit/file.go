package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"panic-buying/internal/simulate"
)

// CSVSink writes <Dir>/<name>.csv.
type CSVSink struct {
	Dir string
}

func (s CSVSink) Emit(_ context.Context, name string, r *simulate.Result) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(s.Dir, fileName(name)+".csv")
	if err := simulate.WriteCSVFile(path, r); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// JSONLSink writes one JSON object per index to W.
type JSONLSink struct {
	W io.Writer
}

func (s JSONLSink) Emit(ctx context.Context, name string, r *simulate.Result) error {
	enc := json.NewEncoder(s.W)
	for _, row := range r.Rows() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := struct {
			Run string `json:"run"`
			RowPayload
		}{Run: name, RowPayload: NewRowPayload(row)}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("encoding row %d: %w", row.Index, err)
		}
	}
	return nil
}

// JSONLFileSink writes <Dir>/<name>.jsonl.
type JSONLFileSink struct {
	Dir string
}

func (s JSONLFileSink) Emit(ctx context.Context, name string, r *simulate.Result) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(s.Dir, fileName(name)+".jsonl")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := (JSONLSink{W: f}).Emit(ctx, name, r); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// fileName keeps run names safe to use as file and topic segments.
func fileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
