package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tabdb/internal/config"
	"tabdb/server"
)

func main() {
	root := &cobra.Command{
		Use:          "tabdb",
		Short:        "tabdb is a minimal in-memory tabular data store",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), shellCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tabdb wire-protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			srv, err := server.New(cfg, log)
			if err != nil {
				return err
			}
			if err := srv.Start(); err != nil {
				return err
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			log.Info("shutting down")
			return srv.Stop()
		},
	}
}
