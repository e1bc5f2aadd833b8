package main

import (
	"context"

	"github.com/spf13/cobra"

	"ddrand/internal/config"
	"ddrand/internal/mcp"
	"ddrand/internal/store"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}

	var db store.Store
	if cfg.Database.DSN != "" {
		db, err = openStore(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
	}

	server := mcp.NewServer(db, buildVersion())
	return server.Run(ctx, &sdk.StdioTransport{})
}
