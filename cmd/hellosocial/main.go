package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellosocial/internal/config"
	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
)

// Seteados con -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = ""
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "hellosocial",
		Short:         "Conecta la sesión con Google, Facebook o GitHub y muestra el perfil",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.PersistentFlags().StringVar(&configPath, "config", envOr("HELLOSOCIAL_CONFIG", "config.yaml"),
		"Path al YAML de configuración (env HELLOSOCIAL_CONFIG); si no existe se usa solo el entorno")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Config{
			Env:         cfg.App.Env,
			Level:       cfg.App.LogLevel,
			ServiceName: "hellosocial",
			Version:     version,
		})
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load))
	root.AddCommand(newConnectionsCmd(load))
	root.AddCommand(newMigrateCmd(load))
	return root
}

type loadFunc func() (*config.Config, error)

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
