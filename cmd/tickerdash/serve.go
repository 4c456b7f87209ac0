package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/komsit37/tickerdash/pkg/dash/config"
	"github.com/komsit37/tickerdash/pkg/dash/logger"
	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
	"github.com/komsit37/tickerdash/pkg/dash/server"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard as a web form with a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			runner := &pipeline.Runner{Source: newSource(cfg, log), Logger: log, SMAWindow: cfg.SMAWindow}
			log.Info("serving dashboard", zap.String("addr", cfg.Serve.Addr), zap.Bool("fixture", cfg.Fixture != ""))
			return server.New(runner, log).Run(cmd.Context(), cfg.Serve.Addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	_ = v.BindPFlag(config.KeyServeAddr, cmd.Flags().Lookup("addr"))
	return cmd
}
