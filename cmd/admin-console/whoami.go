package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/bigkaa/goartstore/admin-console/internal/config"
	"github.com/bigkaa/goartstore/admin-console/internal/identity"
)

var sessionCookie string

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Показать пользователя и роли сессии backend'а.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ctx, err := cliClient(cmd)
		if err != nil {
			return err
		}

		result := struct {
			User  identity.UserBasicInfo `json:"user"`
			Roles []identity.Role        `json:"roles"`
		}{
			User:  client.GetLogonUser(ctx),
			Roles: client.GetRoleDetail(ctx),
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var resolveAppCmd = &cobra.Command{
	Use:   "resolve-app <routeLink>",
	Short: "Найти приложение по routeLink.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ctx, err := cliClient(cmd)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), client.GetApp(ctx, args[0]))
	},
}

func init() {
	for _, cmd := range []*cobra.Command{whoamiCmd, resolveAppCmd} {
		cmd.Flags().StringVar(&sessionCookie, "cookie", "", "заголовок Cookie сессии backend'а")
	}
}

// cliClient создаёт identity-клиент для команд CLI. Ошибки backend'а
// логируются в stderr, перенаправлений нет.
func cliClient(cmd *cobra.Command) (*identity.Client, context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := config.NewLogger(cfg, cmd.ErrOrStderr())

	client, err := identity.New(cfg.BackendURL, cfg.BackendCACertPath, cfg.BackendTimeout, identity.NopNavigator{}, logger)
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if sessionCookie != "" {
		ctx = identity.WithSessionCookie(ctx, sessionCookie)
	}
	return client, ctx, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
