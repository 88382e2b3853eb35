package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// timestampLayout is the filename timestamp, e.g. 2025-10-03_14-30-59.
const timestampLayout = "2006-01-02_15-04-05"

// WriteJSON writes v as JSON indented with four spaces.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// SaveJSON writes v to path, creating parent directories as needed.
func SaveJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, v); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// TimestampedName returns "<prefix>_<YYYY-MM-DD_HH-MM-SS>.json" for t.
func TimestampedName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s.json", prefix, t.Format(timestampLayout))
}
