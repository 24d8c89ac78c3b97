package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "medita/internal/platform/errors"
)

const DocumentVersion = 1

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", apperrors.ErrInvalidInput, raw)
	}
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Record is one session as it travels through an export file.
type Record struct {
	Timestamp       time.Time
	DurationSeconds int64
	Notes           string
}

type Document struct {
	Version    int
	ExportedAt time.Time
	Records    []Record
}

// Problem describes a record that could not be read.
type Problem struct {
	Index  int
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("record %d: %s", p.Index, p.Reason)
}

// Decoded holds the readable records of a document plus the ones that were not.
type Decoded struct {
	Version   int
	Records   []Record
	Malformed []Problem
}

type wireRecord struct {
	Timestamp       string `json:"timestamp" yaml:"timestamp"`
	DurationSeconds *int64 `json:"durationSeconds" yaml:"durationSeconds"`
	Notes           string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type wireDocument struct {
	Version    int          `json:"version" yaml:"version"`
	ExportedAt string       `json:"exportedAt" yaml:"exportedAt"`
	Sessions   []wireRecord `json:"sessions" yaml:"sessions"`
}

type jsonContainer struct {
	Version  int               `json:"version"`
	Sessions *[]json.RawMessage `json:"sessions"`
}

type yamlContainer struct {
	Version  int          `yaml:"version"`
	Sessions *[]yaml.Node `yaml:"sessions"`
}

// Encode renders doc with records sorted by timestamp. Timestamps are written
// in UTC with full nanosecond precision.
func Encode(doc Document, format Format) ([]byte, error) {
	records := make([]Record, len(doc.Records))
	copy(records, doc.Records)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp.Before(records[j].Timestamp) })

	wire := wireDocument{
		Version:    DocumentVersion,
		ExportedAt: doc.ExportedAt.UTC().Format(time.RFC3339),
		Sessions:   make([]wireRecord, 0, len(records)),
	}
	for _, r := range records {
		secs := r.DurationSeconds
		wire.Sessions = append(wire.Sessions, wireRecord{
			Timestamp:       r.Timestamp.UTC().Format(time.RFC3339Nano),
			DurationSeconds: &secs,
			Notes:           r.Notes,
		})
	}

	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(wire, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(wire); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", apperrors.ErrInvalidInput, format)
	}
}

// Decode fails only when the container itself is unreadable. Bad records are
// reported in Decoded.Malformed and skipped.
func Decode(data []byte, format Format) (Decoded, error) {
	var (
		version int
		records []func(*wireRecord) error
	)
	switch format {
	case FormatJSON:
		var c jsonContainer
		if err := json.Unmarshal(data, &c); err != nil {
			return Decoded{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedDocument, err)
		}
		if c.Sessions == nil {
			return Decoded{}, fmt.Errorf("%w: missing sessions array", apperrors.ErrMalformedDocument)
		}
		version = c.Version
		for _, raw := range *c.Sessions {
			records = append(records, func(w *wireRecord) error { return json.Unmarshal(raw, w) })
		}
	case FormatYAML:
		var c yamlContainer
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Decoded{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedDocument, err)
		}
		if c.Sessions == nil {
			return Decoded{}, fmt.Errorf("%w: missing sessions array", apperrors.ErrMalformedDocument)
		}
		version = c.Version
		for i := range *c.Sessions {
			node := &(*c.Sessions)[i]
			records = append(records, func(w *wireRecord) error { return node.Decode(w) })
		}
	default:
		return Decoded{}, fmt.Errorf("%w: unknown format %q", apperrors.ErrInvalidInput, format)
	}

	if version == 0 {
		version = DocumentVersion
	}
	if version > DocumentVersion {
		return Decoded{}, fmt.Errorf("%w: unsupported version %d", apperrors.ErrMalformedDocument, version)
	}

	out := Decoded{Version: version, Records: make([]Record, 0, len(records))}
	for i, decode := range records {
		var w wireRecord
		if err := decode(&w); err != nil {
			out.Malformed = append(out.Malformed, Problem{Index: i, Reason: fmt.Sprintf("unreadable record: %v", err)})
			continue
		}
		record, reason := w.toRecord()
		if reason != "" {
			out.Malformed = append(out.Malformed, Problem{Index: i, Reason: reason})
			continue
		}
		out.Records = append(out.Records, record)
	}
	return out, nil
}

func (w wireRecord) toRecord() (Record, string) {
	if strings.TrimSpace(w.Timestamp) == "" {
		return Record{}, "missing timestamp"
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(w.Timestamp))
	if err != nil {
		return Record{}, fmt.Sprintf("invalid timestamp %q", w.Timestamp)
	}
	if w.DurationSeconds == nil {
		return Record{}, "missing durationSeconds"
	}
	if *w.DurationSeconds < 0 {
		return Record{}, fmt.Sprintf("negative duration %d", *w.DurationSeconds)
	}
	return Record{Timestamp: ts, DurationSeconds: *w.DurationSeconds, Notes: w.Notes}, ""
}
