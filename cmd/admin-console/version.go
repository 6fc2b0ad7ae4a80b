package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bigkaa/goartstore/admin-console/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Показать версию.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "admin-console %s\n", config.Version)
		return err
	},
}
