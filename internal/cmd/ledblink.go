package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/clambin/ledblink/internal/blinker"
	"github.com/clambin/ledblink/internal/configuration"
	"github.com/clambin/ledblink/internal/driver"
	"github.com/clambin/ledblink/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Main parses the command line arguments and blinks the LED. It returns the process exit code.
func Main(ctx context.Context, app string, args []string, version string) int {
	cfg, err := configuration.GetConfiguration(app, version, args)
	if err != nil {
		log.WithError(err).Error("invalid arguments")
		return 1
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	if err = run(ctx, cfg, reg, version); err != nil {
		log.WithError(err).Error("failed to blink led")
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg configuration.Configuration, reg *prometheus.Registry, version string) error {
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.WithField("version", version).Debug("ledblink starting")
	defer log.Debug("ledblink exiting")

	provider, err := driver.New(cfg.Driver)
	if err != nil {
		return fmt.Errorf("driver: %w", err)
	}
	p := metrics.NewProvider(provider)
	if err = reg.Register(p); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	b := blinker.New(p, cfg.Blink, log.WithField("component", "blinker"))

	if cfg.PrometheusAddr == "" {
		return b.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	g, ctx := errgroup.WithContext(ctx)
	runHTTPServer(ctx, cfg.PrometheusAddr, mux, g)
	g.Go(func() error {
		defer cancel()
		return b.Run(ctx)
	})
	return g.Wait()
}

func runHTTPServer(ctx context.Context, addr string, h http.Handler, g *errgroup.Group) {
	s := &http.Server{Addr: addr, Handler: h}
	g.Go(func() error {
		err := s.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			log.WithError(err).Error("metrics server failed to start")
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := s.Shutdown(stopCtx)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			log.WithError(err).Error("metrics server failed to stop")
		}
		return err
	})
}
