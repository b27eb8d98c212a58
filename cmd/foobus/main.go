package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orangootan/busproxy/internal/config"
	"github.com/orangootan/busproxy/internal/logging"
	"github.com/orangootan/busproxy/pkg/bus"
	"github.com/orangootan/busproxy/pkg/foo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	exitOK = iota
	exitConfig
	exitRegistration
	exitRoundTrip
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	bar        string
	serve      bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("foobus", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "path to a .toml or .yaml config file")
	fs.StringVar(&opts.bar, "bar", "foobar", "bar of the record saved by the round trip")
	fs.BoolVar(&opts.serve, "serve", false, "keep serving after the round trip until interrupted")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, errors.New("unexpected arguments")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, output io.Writer) int {
	opts, err := parseFlags(args, output)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitConfig
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger := logging.ConfigureRuntime("")
		logger.Error().Err(err).Msg("failed to load config")
		return exitConfig
	}
	cfg.ApplyEnv()
	logger := logging.ConfigureRuntime(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid config")
		return exitConfig
	}
	codec, _ := bus.CodecByName(cfg.Codec) // checked by Validate

	middlewares := []bus.Middleware{bus.Logging(logger), bus.Metrics()}
	if cfg.RateLimited() {
		middlewares = append(middlewares, bus.RateLimit(cfg.RateLimit.Rate, cfg.RateLimit.Burst))
	}
	b := bus.New(cfg.Name,
		bus.WithCodec(codec),
		bus.WithLogger(logger),
		bus.WithMiddleware(middlewares...),
	)

	if cfg.MetricsAddr != "" {
		shutdown, err := serveMetrics(cfg.MetricsAddr, logger)
		if err != nil {
			logger.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("failed to serve metrics")
			return exitConfig
		}
		defer shutdown()
	}

	endpoint := foo.NewEndpoint(b, cfg.Address, foo.NewInMemoryRepository())
	if _, err := endpoint.Register().Await(ctx); err != nil {
		logger.Error().Err(err).Str("address", cfg.Address).Msg("failed to register endpoint")
		return exitRegistration
	}
	logger.Info().Str("address", cfg.Address).Str("codec", codec.Name()).Msg("endpoint registered")

	code := exitOK
	client, err := foo.NewClient(b, cfg.Address)
	if err == nil {
		_, err = foo.RoundTrip(client, opts.bar, logger).Await(ctx)
	}
	if err != nil {
		logger.Error().Err(err).Msg("round trip failed")
		code = exitRoundTrip
	} else if opts.serve {
		logger.Info().Msg("serving until interrupted")
		<-ctx.Done()
	}

	// A cancelled ctx must not prevent the endpoint from draining.
	if _, err := endpoint.Unregister().Await(context.WithoutCancel(ctx)); err != nil {
		logger.Error().Err(err).Str("address", cfg.Address).Msg("failed to unregister endpoint")
		if code == exitOK {
			code = exitRegistration
		}
	}
	return code
}

func serveMetrics(addr string, logger zerolog.Logger) (func(), error) {
	bus.RegisterMetrics()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	logger.Info().Str("addr", listener.Addr().String()).Msg("serving metrics")
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}, nil
}
