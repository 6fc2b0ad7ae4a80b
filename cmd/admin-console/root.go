package main

import (
	"github.com/spf13/cobra"

	"github.com/bigkaa/goartstore/admin-console/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "admin-console",
	Short:         "Admin Console — веб-консоль администратора.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFile)
	},
}

// Execute выполняет корневую команду.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "файл с переменными окружения AC_*")
	rootCmd.AddCommand(serveCmd, whoamiCmd, resolveAppCmd, versionCmd)
}
