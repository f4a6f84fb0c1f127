package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/artpar/paramset/core/registry"
	"github.com/artpar/paramset/domain/device"
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a device configuration exchange",
		Long: `Define the device schema on a sender and a receiver, write a
configuration on the sender, transfer it in compact form and read it
back on the receiver. The --schema flag is ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			tx := registry.New(registry.WithLogger(app.Logger))
			rx := registry.New(registry.WithLogger(app.Logger))
			for _, r := range []*registry.Registry{tx, rx} {
				if err := device.DefineSchema(r, device.Defaults()); err != nil {
					return err
				}
			}

			cfg := device.Defaults()
			cfg.Speed = 120
			cfg.TemperatureLimit = 72.5
			cfg.Mode = device.ModeManual
			cfg.Network.DHCPEnabled = false
			cfg.Network.IPAddress = "10.0.0.42"
			if err := device.Write(tx, cfg); err != nil {
				return err
			}

			data, err := tx.ToJSON()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "sender json:\n%s\n", pretty.Pretty(data))

			wire := tx.ToCompactString()
			fmt.Fprintf(out, "wire:\n%s\n\n", wire)

			if err := rx.FromCompactString(wire); err != nil {
				return err
			}
			got, err := device.Load(rx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "receiver:\n  speed=%d temperature_limit=%g mode=%s ip=%s\n",
				got.Speed, got.TemperatureLimit, got.Mode, got.Network.IPAddress)

			if got != cfg {
				return fmt.Errorf("receiver config differs from sender")
			}
			fmt.Fprintf(out, "\n%s configurations match\n", checkMark)
			return nil
		},
	}
}
