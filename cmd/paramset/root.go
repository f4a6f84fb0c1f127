package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/paramset/bootstrap"
)

const (
	checkMark = "✓"
	crossMark = "✗"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	schemaPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "paramset",
		Short: "Typed parameter sets with compact and JSON encodings",
		Long: `paramset works with a schema of named, typed parameters.

The schema is a YAML or TOML document listing each parameter with its
type, default and constraints. Without --schema the built-in device
schema is used.

Values travel in two forms:
  compact   speed=120;mode=MANUAL;network.ip_address=10.0.0.42
  json      {"speed":120,"mode":"MANUAL","network.ip_address":"10.0.0.42"}

Examples:
  paramset schema check --schema pump.yaml
  echo 'speed=120' | paramset decode --pretty
  paramset encode values.json
  paramset watch --values device.values`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path")
	cmd.PersistentFlags().StringVarP(&opts.schemaPath, "schema", "s", "", "schema file (.yaml or .toml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (json, console)")

	cmd.AddCommand(
		newSchemaCmd(opts),
		newEncodeCmd(opts),
		newDecodeCmd(opts),
		newWatchCmd(opts),
		newDemoCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the application from the persistent flags. Logs go to the
// command's error stream so they never mix with encoded output.
func (o *rootOptions) newApp(cmd *cobra.Command, valuesPath string) (*bootstrap.App, error) {
	return bootstrap.New(bootstrap.Options{
		ConfigPath: o.configPath,
		SchemaPath: o.schemaPath,
		ValuesPath: valuesPath,
		LogLevel:   o.logLevel,
		LogFormat:  o.logFormat,
		LogOutput:  cmd.ErrOrStderr(),
	})
}
