package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/komsit37/tickerdash/pkg/dash/config"
	"github.com/komsit37/tickerdash/pkg/dash/logger"
	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
	"github.com/komsit37/tickerdash/pkg/dash/source"
)

func newRecordCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "record <ticker>",
		Short: "Save a quote and price history snapshot as a YAML fixture",
		Example: `  tickerdash record AAPL --period 3mo -o testdata/AAPL.yaml
  tickerdash AAPL --fixture testdata/AAPL.yaml`,
		Args: cobra.ExactArgs(1),
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

			req, err := pipeline.NewRequest(args[0], string(cfg.Period), string(cfg.Interval), false, nil)
			if err != nil {
				return err
			}
			snap, err := newSource(cfg, log).Fetch(cmd.Context(), req)
			if err != nil {
				return err
			}
			if len(snap.History) == 0 {
				log.Warn("recording a snapshot without history",
					zap.String("symbol", req.Symbol),
					zap.String("period", string(req.Period)),
					zap.String("interval", string(req.Interval)))
			}

			out := cmd.OutOrStdout()
			if cfg.Output != "" {
				fh, err := os.Create(cfg.Output)
				if err != nil {
					return err
				}
				defer fh.Close()
				out = fh
			}
			if err := source.WriteFixture(out, req.Symbol, req.Interval, snap); err != nil {
				return fmt.Errorf("write fixture: %w", err)
			}
			if cfg.Output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bars)\n", cfg.Output, len(snap.History))
			}
			return nil
		},
	}
}
