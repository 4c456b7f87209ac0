package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "time/tzdata"

	"github.com/komsit37/tickerdash/pkg/dash/config"
	"github.com/komsit37/tickerdash/pkg/dash/logger"
	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
	"github.com/komsit37/tickerdash/pkg/dash/render"
	"github.com/komsit37/tickerdash/pkg/dash/source"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(config.New())
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "tickerdash <ticker>",
		Short: "Chart a stock's closing price with a moving average and key metrics",
		Long: `tickerdash fetches a ticker's quote and price history from Yahoo Finance and
renders a closing-price chart with an optional simple moving average, plus the
Stock Info, Price Info and Business Metrics tables.

Every flag can also be set with a TICKERDASH_ environment variable
(TICKERDASH_PERIOD, TICKERDASH_LOG_LEVEL, ...) or a config file.`,
		Example: `  tickerdash AAPL
  tickerdash MSFT --period "1 Year" --interval 1d --sma-window 20
  tickerdash 7203.T --tables info,price --format json
  tickerdash AAPL --format html -o aapl.html`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly 1 ticker argument")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ReadFile(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runDashboard(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.Duration("timeout", 15*time.Second, "timeout per Yahoo Finance call")
	pf.String("fixture", "", "replay a recorded YAML snapshot instead of calling Yahoo Finance")
	pf.Int("sma-window", types.DefaultSMAWindow, "moving average window")
	pf.StringP("period", "p", string(types.DefaultPeriod), "time frame: 1mo, 3mo, 6mo, 1y, 5y (or \"6 Month\" style labels)")
	pf.StringP("interval", "i", string(types.DefaultInterval), "time interval: 5m, 30m, 1h, 1d (or \"1 Day\" style labels)")
	pf.StringP("output", "o", "", "write output to a file instead of stdout")

	f := cmd.Flags()
	f.Bool("sma", types.DefaultShowSMA, "show the moving average")
	f.StringSlice("tables", nil, "tables to show: info, price, business (default all)")
	f.StringP("format", "f", render.FormatTable, "output format: table, json, html, plain")
	f.Bool("color", true, "colorize terminal output")
	f.Int("max-col-width", 40, "maximum table column width")

	bind(v, pf, map[string]string{
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
		config.KeyTimeout:   "timeout",
		config.KeyFixture:   "fixture",
		config.KeySMAWindow: "sma-window",
		config.KeyPeriod:    "period",
		config.KeyInterval:  "interval",
		config.KeyOutput:    "output",
	})
	bind(v, f, map[string]string{
		config.KeySMA:         "sma",
		config.KeyTables:      "tables",
		config.KeyFormat:      "format",
		config.KeyColor:       "color",
		config.KeyMaxColWidth: "max-col-width",
	})

	cmd.AddCommand(newServeCmd(v), newRecordCmd(v))
	return cmd
}

func runDashboard(ctx context.Context, cfg config.Config, symbol string, stdout, stderr io.Writer) error {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	r, err := render.New(cfg.Format)
	if err != nil {
		return err
	}
	runner := &pipeline.Runner{Source: newSource(cfg, log), Logger: log, SMAWindow: cfg.SMAWindow}

	var res pipeline.Result
	req, err := pipeline.NewRequest(symbol, string(cfg.Period), string(cfg.Interval), cfg.ShowSMA, cfg.Tables)
	if err != nil {
		res = pipeline.Result{Status: pipeline.StatusInvalidInput, Message: err.Error()}
	} else {
		res = runner.Execute(ctx, req)
	}

	width, tty := terminalInfo(os.Stdout)
	color := cfg.Color && tty && cfg.Output == ""
	errColor := cfg.Color && isTerminal(os.Stderr)

	// Machine formats carry the failure in the document itself.
	if !res.OK() && cfg.Format != render.FormatJSON {
		fmt.Fprintln(stderr, paint(errColor, text.FgRed, res.Message))
		return errReported
	}
	if cfg.Format == render.FormatPlain {
		for _, w := range res.Warnings {
			fmt.Fprintln(stderr, paint(errColor, text.FgYellow, w))
		}
	}

	out := stdout
	if cfg.Output != "" {
		fh, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer fh.Close()
		out = fh
	}
	opts := render.RenderOptions{
		Color:       color,
		PrettyJSON:  true,
		MaxColWidth: cfg.MaxColWidth,
		Width:       width,
	}
	if err := r.Render(out, res, opts); err != nil {
		return fmt.Errorf("render %s: %w", cfg.Format, err)
	}
	if cfg.Output != "" {
		fmt.Fprintf(stderr, "wrote %s\n", cfg.Output)
	}
	if !res.OK() {
		return errReported
	}
	return nil
}

func newSource(cfg config.Config, log *zap.Logger) source.Source {
	if cfg.Fixture != "" {
		log.Debug("using recorded snapshot", zap.String("path", cfg.Fixture))
		return source.YAMLSource{Path: cfg.Fixture}
	}
	return source.NewYahooSource(source.NewYahooClient(), cfg.Timeout, log)
}

func bind(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		_ = v.BindPFlag(key, fs.Lookup(name))
	}
}

func isTerminal(f *os.File) bool {
	_, tty := terminalInfo(f)
	return tty
}

func paint(color bool, c text.Color, s string) string {
	if !color {
		return s
	}
	return c.Sprint(s)
}
