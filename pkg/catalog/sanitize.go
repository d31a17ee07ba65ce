package catalog

import (
	"strings"

	iceberg "github.com/apache/iceberg-go"
)

var sensitiveKeyParts = []string{
	"secret",
	"password",
	"token",
	"credential",
	"access-key",
	"access.key",
}

// SanitizeProperties returns a copy of props safe to log, with the values
// of credential-like keys replaced
func SanitizeProperties(props iceberg.Properties) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		if isSensitiveKey(k) {
			out[k] = redacted
			continue
		}
		out[k] = v
	}
	return out
}

// SanitizeSessionConfig applies the same redaction to a Spark session map
func SanitizeSessionConfig(conf map[string]string) map[string]string {
	return SanitizeProperties(conf)
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
