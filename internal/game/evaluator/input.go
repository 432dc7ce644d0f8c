package evaluator

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrMalformedInput = errors.New("malformed input")

// Input is the structured payload a presentation adapter builds for one
// evaluation. Values may come straight from JSON decoding, so readers accept
// []any and float64 alongside native Go types.
type Input map[string]any

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

func (in Input) String(key string) (string, bool) {
	s, ok := in[key].(string)
	return s, ok
}

func (in Input) Bool(key string) bool {
	b, _ := in[key].(bool)
	return b
}

func (in Input) Float(key string) (float64, bool) {
	return toFloat(in[key])
}

func (in Input) Strings(key string) ([]string, bool) {
	switch v := in[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func (in Input) FloatMap(key string) (map[string]float64, bool) {
	switch v := in[key].(type) {
	case map[string]float64:
		return v, true
	case map[string]any:
		out := make(map[string]float64, len(v))
		for k, raw := range v {
			f, ok := toFloat(raw)
			if !ok {
				return nil, false
			}
			out[k] = f
		}
		return out, true
	}
	return nil, false
}

func (in Input) StringMap(key string) (map[string]string, bool) {
	switch v := in[key].(type) {
	case map[string]string:
		return v, true
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, raw := range v {
			s, ok := raw.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func requireString(in Input, key string) error {
	if _, ok := in.String(key); !ok {
		return malformed("%q must be a string", key)
	}
	return nil
}

func requireStrings(in Input, key string) error {
	if _, ok := in.Strings(key); !ok {
		return malformed("%q must be a list of strings", key)
	}
	return nil
}

func requireFloatMap(in Input, key string) error {
	if _, ok := in.FloatMap(key); !ok {
		return malformed("%q must map names to numbers", key)
	}
	return nil
}
