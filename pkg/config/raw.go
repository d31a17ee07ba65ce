package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
)

// Raw is an undecoded configuration object as produced by the connector
// framework. Keys are the external contract; values are JSON scalars,
// nested objects, or nil for an explicit JSON null.
type Raw map[string]interface{}

// Has reports whether key is present with a non-null value
func (r Raw) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the textual value of key. JSON null and a missing key are
// both absent. Numbers and booleans are rendered as their JSON text; nested
// objects and arrays are rejected.
func (r Raw) String(key string) (Optional[string], error) {
	v, ok := r[key]
	if !ok || v == nil {
		return None[string](), nil
	}
	s, err := scalarText(v)
	if err != nil {
		return None[string](), fieldError(key, err.Error())
	}
	return Some(s), nil
}

// RequiredString returns the textual value of key or a config error naming it
func (r Raw) RequiredString(key string) (string, error) {
	o, err := r.String(key)
	if err != nil {
		return "", err
	}
	v, ok := o.Get()
	if !ok {
		return "", fieldError(key, fmt.Sprintf("%s is required", key))
	}
	return v, nil
}

// StringOr returns the textual value of key, or def when absent
func (r Raw) StringOr(key, def string) (string, error) {
	o, err := r.String(key)
	if err != nil {
		return "", err
	}
	return o.OrElse(def), nil
}

// Bool returns the boolean value of key, or def when absent
func (r Raw) Bool(key string, def bool) (bool, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fieldError(key, fmt.Sprintf("%s must be a boolean", key))
		}
		return parsed, nil
	default:
		return false, fieldError(key, fmt.Sprintf("%s must be a boolean", key))
	}
}

// Int returns the integer value of key, or def when absent
func (r Raw) Int(key string, def int) (int, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return def, nil
	}
	bad := fieldError(key, fmt.Sprintf("%s must be an integer", key))
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, bad
		}
		return int(n), nil
	case gojson.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, bad
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, bad
		}
		return i, nil
	default:
		return 0, bad
	}
}

// Object returns the nested object stored under key
func (r Raw) Object(key string) (Raw, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, fieldError(key, fmt.Sprintf("%s is required", key))
	}
	switch obj := v.(type) {
	case Raw:
		return obj, nil
	case map[string]interface{}:
		return Raw(obj), nil
	default:
		return nil, fieldError(key, fmt.Sprintf("%s must be an object", key))
	}
}

func scalarText(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case bool:
		return strconv.FormatBool(s), nil
	case gojson.Number:
		return s.String(), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	default:
		return "", fmt.Errorf("expected a scalar value, got %T", v)
	}
}

func fieldError(key, msg string) *errors.Error {
	return errors.New(errors.ErrorTypeConfig, msg).WithDetail("field", key)
}
