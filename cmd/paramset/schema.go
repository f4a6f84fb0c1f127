package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the parameter schema",
	}
	cmd.AddCommand(newSchemaCheckCmd(opts), newSchemaShowCmd(opts))
	return cmd
}

func newSchemaCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the schema and its defaults",
		Long: `Validate the schema document.

Checks:
  - Document syntax is valid
  - Every parameter has a unique name and a known type
  - Rules fit the parameter type and bounds are consistent
  - Every default satisfies its own constraint

Examples:
  paramset schema check
  paramset schema check --schema pump.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			app, err := opts.newApp(cmd, "")
			if err != nil {
				fmt.Fprintf(out, "  %s Schema valid\n", crossMark)
				return err
			}
			name := app.Schema.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(out, "Checking schema %s...\n\n", name)

			r, err := app.NewRegistry()
			if err != nil {
				fmt.Fprintf(out, "  %s Schema valid\n", crossMark)
				return err
			}
			fmt.Fprintf(out, "  %s Schema valid (%d parameters)\n", checkMark, r.Len())

			verifyErr := r.Verify()
			if verifyErr != nil {
				fmt.Fprintf(out, "  %s Defaults satisfy constraints\n", crossMark)
			} else {
				fmt.Fprintf(out, "  %s Defaults satisfy constraints\n", checkMark)
			}

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  NAME\tTYPE\tDEFAULT")
			for _, n := range r.Names() {
				e, _ := r.Lookup(n)
				fmt.Fprintf(w, "  %s\t%s\t%s\n", n, e.Kind(), e.Text())
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if verifyErr != nil {
				return fmt.Errorf("schema %s: %w", name, verifyErr)
			}
			return nil
		},
	}
}

func newSchemaShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the schema document",
		Long: `Print the active schema document in YAML, TOML or JSON.

Use it to dump the built-in device schema as a starting point for a
custom schema file.

Examples:
  paramset schema show
  paramset schema show --format toml > device.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				data, err := yaml.Marshal(app.Schema)
				if err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
				_, err = out.Write(data)
				return err
			case "toml":
				if err := toml.NewEncoder(out).Encode(app.Schema); err != nil {
					return fmt.Errorf("encode toml: %w", err)
				}
				return nil
			case "json":
				data, err := json.Marshal(app.Schema)
				if err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				_, err = out.Write(pretty.Pretty(data))
				return err
			default:
				return fmt.Errorf("unknown format %q (want yaml, toml or json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, toml, json)")
	return cmd
}
