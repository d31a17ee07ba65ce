package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
)

// Load reads a connector configuration document from a JSON or YAML file.
// ${VAR} references are replaced with environment values before decoding.
func Load(filePath string) (Raw, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file").
			WithDetail("path", filePath)
	}

	content := []byte(substituteEnvVars(string(data)))

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return ParseYAML(content)
	default:
		return ParseJSON(content)
	}
}

// ParseJSON decodes a JSON object into a Raw document
func ParseJSON(data []byte) (Raw, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse JSON config")
	}
	if doc == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "config document must be a JSON object")
	}
	return Raw(doc), nil
}

// ParseYAML decodes a YAML mapping into a Raw document
func ParseYAML(data []byte) (Raw, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML config")
	}
	if doc == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "config document must be a YAML mapping")
	}
	return Raw(doc), nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
