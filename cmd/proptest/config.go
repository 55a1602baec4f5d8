package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shipq/proptest/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage proptest.ini",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a proptest.ini with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := a.configDir
			if dir == "" {
				var err error
				if dir, err = os.Getwd(); err != nil {
					return err
				}
			}
			path, err := config.WriteDefault(dir)
			if err != nil {
				return err
			}
			a.out.Successf("created %s", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Path != "" {
				a.out.Infof("# %s", a.cfg.Path)
			} else {
				a.out.Info("# defaults, no " + config.ConfigFilename + " found")
			}
			return a.cfg.File(false).Write(a.out.Out)
		},
	})
	return cmd
}
