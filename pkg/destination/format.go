package destination

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/errors"
)

// Raw config keys of a format_config object
const (
	KeyFormat                    = "format"
	KeyFlushBatchSize            = "flush_batch_size"
	KeyAutoCompact               = "auto_compact"
	KeyCompactTargetFileSizeInMB = "compact_target_file_size_in_mb"
)

const (
	defaultFlushBatchSize          = 10000
	defaultCompactTargetFileSizeMB = 100
)

// Format is the data file format tables are written in
type Format string

const (
	FormatParquet Format = "parquet"
	FormatAvro    Format = "avro"
)

// FormatConfig controls how records are written and compacted
type FormatConfig struct {
	format                  Format
	flushBatchSize          int
	autoCompact             bool
	compactTargetFileSizeMB int
}

// DefaultFormatConfig is used when format_config is absent
func DefaultFormatConfig() *FormatConfig {
	return &FormatConfig{
		format:                  FormatParquet,
		flushBatchSize:          defaultFlushBatchSize,
		compactTargetFileSizeMB: defaultCompactTargetFileSizeMB,
	}
}

// ParseFormatConfig validates a format_config object
func ParseFormatConfig(raw config.Raw) (*FormatConfig, error) {
	c := DefaultFormatConfig()

	name, err := raw.StringOr(KeyFormat, string(FormatParquet))
	if err != nil {
		return nil, err
	}
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatParquet, FormatAvro:
		c.format = f
	default:
		return nil, errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("unsupported format %q, expected Parquet or Avro", name)).
			WithDetail("field", KeyFormat)
	}

	if c.flushBatchSize, err = positiveInt(raw, KeyFlushBatchSize, defaultFlushBatchSize); err != nil {
		return nil, err
	}
	if c.autoCompact, err = raw.Bool(KeyAutoCompact, false); err != nil {
		return nil, err
	}
	if c.compactTargetFileSizeMB, err = positiveInt(raw, KeyCompactTargetFileSizeInMB, defaultCompactTargetFileSizeMB); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *FormatConfig) Format() Format               { return c.format }
func (c *FormatConfig) FlushBatchSize() int          { return c.flushBatchSize }
func (c *FormatConfig) AutoCompact() bool            { return c.autoCompact }
func (c *FormatConfig) CompactTargetFileSizeMB() int { return c.compactTargetFileSizeMB }

// TargetFileSizeBytes is the compaction target in bytes
func (c *FormatConfig) TargetFileSizeBytes() int64 {
	return int64(c.compactTargetFileSizeMB) * 1024 * 1024
}

func positiveInt(raw config.Raw, key string, def int) (int, error) {
	n, err := raw.Int(key, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("%s must be greater than 0", key)).
			WithDetail("field", key)
	}
	return n, nil
}
