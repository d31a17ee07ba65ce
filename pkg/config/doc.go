// Package config loads connector configuration documents and exposes them as
// an undecoded Raw map with typed accessors.
//
// Documents may be JSON or YAML and may reference environment variables with
// ${VAR_NAME}; unset variables expand to the empty string.
//
//	raw, err := config.Load("destination.yaml")
//	if err != nil {
//		return err // ErrorTypeFile or ErrorTypeConfig
//	}
//	catalogRaw, err := raw.Object("catalog_config")
//
// Field accessors treat a JSON null the same as a missing key. Optional
// fields come back as an Optional so callers decide presence once:
//
//	ref, err := catalogRaw.String("nessie_server_ref")
//	if v, ok := config.NonBlank(ref); ok {
//		props["ref"] = v
//	}
//
// Every accessor error is an ErrorTypeConfig error carrying the offending key
// in its "field" detail.
package config
