package repository

import (
	"encoding/json"
	"errors"
	"fmt"
)

// schemaVersion tags every persisted payload so future format changes can
// be detected on read instead of failing mid-decode.
const schemaVersion = 1

var errSchemaMismatch = errors.New("unsupported schema version")

type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Data          json.RawMessage `json:"data"`
}

func marshalEnvelope(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	raw, err := json.Marshal(envelope{
		SchemaVersion: schemaVersion,
		Data:          data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return raw, nil
}

// unmarshalEnvelope decodes a stored payload into v. Unversioned or
// future-versioned payloads return errSchemaMismatch so callers can treat
// them as absent rather than crash.
func unmarshalEnvelope(raw []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	if env.SchemaVersion != schemaVersion {
		return fmt.Errorf("%w: got %d, want %d", errSchemaMismatch, env.SchemaVersion, schemaVersion)
	}

	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
