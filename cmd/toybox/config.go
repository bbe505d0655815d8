package main

import (
	"github.com/spf13/cobra"

	"github.com/lixenwraith/toybox/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if defaults {
				cfg = config.Default()
			}
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "ignore the config file and environment")
	return cmd
}
