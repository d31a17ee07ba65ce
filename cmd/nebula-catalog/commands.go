package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-catalog/pkg/catalog"
	"github.com/ajitpratap0/nebula-catalog/pkg/config"
	"github.com/ajitpratap0/nebula-catalog/pkg/destination"
	"github.com/ajitpratap0/nebula-catalog/pkg/logger"
	"github.com/ajitpratap0/nebula-catalog/pkg/observability"
)

const (
	outputJSON       = "json"
	outputProperties = "properties"
)

func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "nebula-catalog",
		Short: "Iceberg catalog configuration for Spark destinations",
		Long: `nebula-catalog validates Iceberg destination documents and renders the
Spark session configuration that registers their catalog.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{
				Level:       logLevel,
				Encoding:    "console",
				OutputPaths: []string{"stderr"},
			})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	root.AddCommand(newVersionCommand(), newListCommand(), newSparkConfCommand(), newCheckCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nebula-catalog v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported catalog types",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available Catalog Types:")
			for _, t := range catalog.Types() {
				fmt.Fprintf(out, "  - %s\n", t)
			}
		},
	}
}

func newSparkConfCommand() *cobra.Command {
	var configFile, output string
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "spark-conf",
		Short: "Render the Spark session configuration of a destination",
		Long: `Render the Spark session configuration of a destination document.
Secret values are redacted unless --show-secrets is set.

Example:
  nebula-catalog spark-conf --config destination.json --output properties`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := loadDestination(configFile)
			if err != nil {
				return err
			}

			conf := dest.SparkConfig()
			if !showSecrets {
				conf = catalog.SanitizeSessionConfig(conf)
			}
			return writeSessionConfig(cmd.OutOrStdout(), conf, output)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to destination configuration file, JSON or YAML (required)")
	cmd.Flags().StringVarP(&output, "output", "o", outputProperties, "Output format (json, properties)")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print credentials instead of redacting them")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newCheckCommand() *cobra.Command {
	var configFile string
	var timeout time.Duration
	var traceSpans bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify storage and catalog connectivity of a destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := loadDestination(configFile)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			ctx = context.WithValue(ctx, logger.CatalogKey, catalog.CatalogName)

			if traceSpans {
				shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
					ServiceName:    "nebula-catalog",
					ServiceVersion: version,
					SamplingRate:   1,
					Output:         cmd.ErrOrStderr(),
				})
				if err != nil {
					return err
				}
				defer func() { _ = shutdown(context.Background()) }()
			}

			if err := dest.Check(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s catalog on %s storage\n",
				dest.Catalog().Type(), dest.Storage().Type())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to destination configuration file, JSON or YAML (required)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Check timeout")
	cmd.Flags().BoolVar(&traceSpans, "trace", false, "Print OpenTelemetry spans to stderr")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func loadDestination(path string) (*destination.Config, error) {
	raw, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	dest, err := destination.Parse(raw)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("destination parsed",
		zap.String("path", path),
		zap.String("catalog_type", string(dest.Catalog().Type())),
		zap.String("storage_type", string(dest.Storage().Type())))
	return dest, nil
}

func writeSessionConfig(w io.Writer, conf map[string]string, output string) error {
	switch output {
	case outputJSON:
		data, err := gojson.MarshalIndent(conf, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputProperties:
		keys := make([]string, 0, len(conf))
		for k := range conf {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "%s=%s\n", k, conf[k]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q, expected %s or %s", output, outputJSON, outputProperties)
	}
}
