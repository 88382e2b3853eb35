package report

import (
	"encoding/json"
	"fmt"
)

const jsonSchema = "opskit/v1"

type jsonEnvelope struct {
	Schema string `json:"$schema"`
	Data
}

// Generate writes the JSON envelope.
func (r *JSONReporter) Generate(data Data) error {
	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonEnvelope{Schema: jsonSchema, Data: data}); err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	return nil
}
