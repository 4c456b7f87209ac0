package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
	"github.com/komsit37/tickerdash/pkg/dash/render"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// Server serves the dashboard form, a JSON API, health and metrics.
type Server struct {
	runner  *pipeline.Runner
	log     *zap.Logger
	metrics *Metrics
	reg     *prometheus.Registry
	engine  *gin.Engine
}

// New wires the routes around runner. Each server owns its metrics registry.
func New(runner *pipeline.Runner, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		runner:  runner,
		log:     log,
		metrics: NewMetrics(reg),
		reg:     reg,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(log), accessLog())
	r.GET("/", s.page)
	r.GET("/api/dashboard", s.dashboard)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// page renders the form; once submitted it also renders the dashboard.
func (s *Server) page(c *gin.Context) {
	req, submitted, err := parseRequest(c)
	form := render.NewForm(c.Request.URL.Path, req, s.window())
	var res *pipeline.Result
	if submitted {
		r := s.execute(c, req, err)
		res = &r
	}
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(c.Writer, form, res); err != nil {
		loggerFrom(c).Error("render page", zap.Error(err))
	}
}

// dashboard returns the Result as JSON: 400 for invalid input, 502 when
// the upstream fetch failed.
func (s *Server) dashboard(c *gin.Context) {
	req, _, err := parseRequest(c)
	res := s.execute(c, req, err)
	switch res.Status {
	case pipeline.StatusInvalidInput:
		c.JSON(http.StatusBadRequest, res)
	case pipeline.StatusFailed:
		c.JSON(http.StatusBadGateway, res)
	default:
		c.JSON(http.StatusOK, res)
	}
}

func (s *Server) execute(c *gin.Context, req types.Request, parseErr error) pipeline.Result {
	var res pipeline.Result
	if parseErr != nil {
		res = pipeline.Result{Status: pipeline.StatusInvalidInput, Message: parseErr.Error()}
	} else {
		runner := *s.runner
		runner.Logger = loggerFrom(c)
		res = runner.Execute(c.Request.Context(), req)
	}
	s.metrics.Observe(res)
	return res
}

func (s *Server) window() int {
	if s.runner.SMAWindow > 0 {
		return s.runner.SMAWindow
	}
	return types.DefaultSMAWindow
}

// parseRequest reads ticker, period, interval, sma and tables from the
// query. The SMA defaults to on until the form has been submitted, since an
// unchecked checkbox is simply absent.
func parseRequest(c *gin.Context) (types.Request, bool, error) {
	_, hasTicker := c.GetQuery("ticker")
	submitted := hasTicker || c.Query("submitted") != ""

	showSMA := types.DefaultShowSMA
	if v, ok := c.GetQuery("sma"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback(c), submitted, &pipeline.InputError{Field: "sma", Message: fmt.Sprintf("Invalid sma value %q.", v)}
		}
		showSMA = b
	} else if c.Query("submitted") != "" {
		showSMA = false
	}

	var tables []string
	for _, t := range c.QueryArray("tables") {
		for _, name := range strings.Split(t, ",") {
			if name = strings.TrimSpace(name); name != "" {
				tables = append(tables, name)
			}
		}
	}

	req, err := pipeline.NewRequest(c.Query("ticker"), c.Query("period"), c.Query("interval"), showSMA, tables)
	if err != nil {
		var ie *pipeline.InputError
		if errors.As(err, &ie) && ie.Field != "symbol" {
			// keep the form usable after a bad select value
			req = fallback(c)
			req.ShowSMA = showSMA
		}
		return req, submitted, err
	}
	return req, submitted, nil
}

func fallback(c *gin.Context) types.Request {
	return types.Request{
		Symbol:   strings.ToUpper(strings.TrimSpace(c.Query("ticker"))),
		Period:   types.DefaultPeriod,
		Interval: types.DefaultInterval,
		ShowSMA:  types.DefaultShowSMA,
	}
}
