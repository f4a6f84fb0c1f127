package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/artpar/paramset/pkg/compact"
)

func newEncodeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file]",
		Short: "Convert a JSON object to the compact form",
		Long: `Read a JSON object of parameter values and print the full parameter
set in compact form. Parameters missing from the input keep their
defaults. Reads stdin when no file is given or the file is "-".

Examples:
  paramset encode values.json
  echo '{"speed": 120}' | paramset encode`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			app, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}
			r, err := app.NewRegistry()
			if err != nil {
				return err
			}

			if err := r.FromJSON(data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.ToCompactString())
			return nil
		},
	}
}

func newDecodeCmd(opts *rootOptions) *cobra.Command {
	var indent bool

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Convert the compact form to a JSON object",
		Long: `Read compact parameter values and print the full parameter set as a
JSON object. Parameters missing from the input keep their defaults.
Reads stdin when no file is given or the file is "-".

Examples:
  paramset decode device.values
  echo 'speed=120;mode=MANUAL' | paramset decode --pretty`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			app, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}
			r, err := app.NewRegistry()
			if err != nil {
				return err
			}

			if err := r.FromCompactString(compact.TrimLineEnding(string(data))); err != nil {
				return err
			}
			out, err := r.ToJSON()
			if err != nil {
				return err
			}
			if indent {
				out = pretty.Pretty(out)
			} else {
				out = append(pretty.Ugly(out), '\n')
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().BoolVarP(&indent, "pretty", "p", false, "indent the JSON output")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", args[0], err)
	}
	return data, nil
}
