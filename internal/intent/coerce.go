package intent

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Data is the loosely typed payload the model returns.
type Data map[string]any

var numberPattern = regexp.MustCompile(`[-+]?(\d+(\.\d+)?|\.\d+)`)

// String returns the first non-empty string (or stringified scalar) under
// keys, trimmed.
func (d Data) String(keys ...string) string {
	for _, k := range keys {
		switch v := d[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

// Number returns the first value under keys that coerces to a finite number.
// Strings like "500tk" or "1,200" are accepted.
func (d Data) Number(keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := toNumber(d[k]); ok {
			return f, true
		}
	}
	return 0, false
}

// Int is Number truncated toward zero.
func (d Data) Int(keys ...string) (int, bool) {
	f, ok := d.Number(keys...)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool coerces JSON booleans and the strings "true"/"yes"/"1".
func (d Data) Bool(keys ...string) (bool, bool) {
	for _, k := range keys {
		switch v := d[k].(type) {
		case bool:
			return v, true
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes", "1", "on":
				return true, true
			case "false", "no", "0", "off":
				return false, true
			}
		case json.Number:
			return v.String() != "0", true
		case float64:
			return v != 0, true
		}
	}
	return false, false
}

// Strings splits a comma separated string, or reads a JSON string array.
func (d Data) Strings(keys ...string) []string {
	for _, k := range keys {
		var raw []string
		switch v := d[k].(type) {
		case string:
			raw = strings.Split(v, ",")
		case []any:
			for _, e := range v {
				if s, ok := e.(string); ok {
					raw = append(raw, s)
				}
			}
		}
		var out []string
		for _, s := range raw {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
			f = parsed
			break
		}
		m := numberPattern.FindString(cleaned)
		if m == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
