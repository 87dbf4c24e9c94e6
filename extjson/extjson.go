// Package extjson renders storage-world documents as canonical Extended
// JSON and reads them back. Identifier, timestamp, decimal and 64-bit
// integer values travel as tagged single-key objects so the round trip is
// lossless through plain JSON tooling.
package extjson

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/data"
	"github.com/mondoc/mondoc/oid"
)

const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// Marshal encodes a storage-world value tree as Extended JSON.
func Marshal(v any) ([]byte, error) {
	ev, err := encode(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ev)
}

// Unmarshal decodes Extended JSON back into a storage-world value tree.
// Numbers without a type tag come back as int64 when whole, float64
// otherwise.
func Unmarshal(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return decode(raw)
}

func encode(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, float64, float32:
		return t, nil
	case oid.ID:
		return map[string]any{"$uuid": t.String()}, nil
	case uuid.UUID:
		return map[string]any{"$uuid": t.String()}, nil
	case time.Time:
		return map[string]any{"$date": t.UTC().Format(dateLayout)}, nil
	case data.Decimal128:
		return map[string]any{"$numberDecimal": t.String()}, nil
	case int:
		return map[string]any{"$numberLong": strconv.FormatInt(int64(t), 10)}, nil
	case int32:
		return map[string]any{"$numberLong": strconv.FormatInt(int64(t), 10)}, nil
	case int64:
		return map[string]any{"$numberLong": strconv.FormatInt(t, 10)}, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, mv := range t {
			ev, err := encode(mv)
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			e, err := encode(ev)
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	}
	return nil, mondoc.Contractf("extjson: cannot encode %T", v)
}

func decode(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 1 {
			if dv, ok, err := decodeTagged(t); ok || err != nil {
				return dv, err
			}
		}
		out := make(map[string]any, len(t))
		for k, mv := range t {
			dv, err := decode(mv)
			if err != nil {
				return nil, err
			}
			out[k] = dv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			dv, err := decode(ev)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	case json.Number:
		if n, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return n, nil
		}
		return t.Float64()
	}
	return v, nil
}

// decodeTagged recognizes the single-key tagged forms. The bool result is
// false when the map is an ordinary document that happens to have one key.
func decodeTagged(m map[string]any) (any, bool, error) {
	for tag, raw := range m {
		switch tag {
		case "$uuid":
			s, ok := raw.(string)
			if !ok {
				return nil, true, fmt.Errorf("extjson: $uuid value must be a string, got %T", raw)
			}
			id, err := oid.Parse(s)
			if err != nil {
				return nil, true, err
			}
			return id, true, nil
		case "$date":
			s, ok := raw.(string)
			if !ok {
				return nil, true, fmt.Errorf("extjson: $date value must be a string, got %T", raw)
			}
			ts, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, true, fmt.Errorf("extjson: bad $date %q: %w", s, err)
			}
			return ts.UTC(), true, nil
		case "$numberDecimal":
			s, ok := raw.(string)
			if !ok {
				return nil, true, fmt.Errorf("extjson: $numberDecimal value must be a string, got %T", raw)
			}
			d, err := data.ParseDecimal128(s)
			if err != nil {
				return nil, true, err
			}
			return d, true, nil
		case "$numberLong", "$numberInt":
			s, ok := raw.(string)
			if !ok {
				return nil, true, fmt.Errorf("extjson: %s value must be a string, got %T", tag, raw)
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, true, fmt.Errorf("extjson: bad %s %q: %w", tag, s, err)
			}
			return n, true, nil
		}
	}
	return nil, false, nil
}
