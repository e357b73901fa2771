package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// marshalCall converts a call to the JSON TEXT stored in calls.body.
func marshalCall(c trace.Call) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal call %d: %w", c.No, err)
	}
	return string(data), nil
}

// unmarshalCall parses calls.body.
func unmarshalCall(data string) (trace.Call, error) {
	var c trace.Call
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return trace.Call{}, fmt.Errorf("unmarshal call: %w", err)
	}
	return c, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
