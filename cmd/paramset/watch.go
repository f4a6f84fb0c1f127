package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var valuesPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Load a values file and reload it on change",
		Long: `Load a values file into the schema and keep it in sync.

The file is reloaded when it is written or replaced, and on SIGHUP. A
file that fails to decode is rejected as a whole and the previous values
stay in effect. When metrics are enabled the Prometheus endpoint is
served until the command exits.

The values format follows the file extension (.json for JSON, anything
else for compact) unless values.format is set in the config file.

Examples:
  paramset watch --values device.values
  PARAMSET_METRICS_ENABLED=true paramset watch --values device.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd, valuesPath)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			h, err := app.NewHolder()
			if err != nil {
				return err
			}
			defer h.Stop()

			if err := h.Load(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSnapshot(cmd, h.Snapshot())
			h.OnChange(func(values map[string]string) {
				fmt.Fprintln(out, "---")
				printSnapshot(cmd, values)
			})

			if err := h.WatchFile(); err != nil {
				return err
			}
			h.WatchSignals()
			app.ServeMetrics()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case <-quit:
			case <-cmd.Context().Done():
			}
			app.Logger.Info().Msg("shutting down")
			return nil
		},
	}

	cmd.Flags().StringVar(&valuesPath, "values", "", "values file to load and watch")
	return cmd
}

func printSnapshot(cmd *cobra.Command, values map[string]string) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintf(out, "%s=%s\n", name, values[name])
	}
}
