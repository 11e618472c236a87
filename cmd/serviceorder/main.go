package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/odyssey-erp/serviceorder/cmd/serviceorder/cli"
	"github.com/odyssey-erp/serviceorder/internal/app"
	"github.com/odyssey-erp/serviceorder/internal/observability"
	"github.com/odyssey-erp/serviceorder/internal/pdf"
	"github.com/odyssey-erp/serviceorder/internal/platform/files"
	"github.com/odyssey-erp/serviceorder/internal/serviceorder"
	"github.com/odyssey-erp/serviceorder/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return 1
	}
	logger := app.NewLogger(cfg)

	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	tp, err := observability.NewTracerProvider(ctx, observability.TracingConfig{
		Enabled:       cfg.OTelEnabled,
		Endpoint:      cfg.OTelEndpoint,
		SamplingRatio: cfg.OTelSamplingRatio,
		ServiceName:   cfg.OTelServiceName,
		Insecure:      cfg.OTelInsecure,
	}, logger)
	if err != nil {
		logger.Error("init tracing", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("tracing shutdown", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	svc, err := newService(cfg, logger, metrics)
	if err != nil {
		logger.Error("init service", slog.Any("error", err))
		return 1
	}

	switch command {
	case "serve":
		return serve(ctx, stop, cfg, logger, svc, metrics)
	case "render":
		fs := flag.NewFlagSet("render", flag.ContinueOnError)
		in := fs.String("in", "", "order JSON file, - for stdin")
		out := fs.String("out", "", "HTML output file, stdout when empty")
		example := fs.Bool("example", false, "render the built-in example order")
		if err := fs.Parse(args); err != nil {
			return cli.ExitUsage
		}
		orders, err := cli.NewOrderCLI(svc)
		if err != nil {
			logger.Error("init cli", slog.Any("error", err))
			return 1
		}
		return orders.RenderCommand(ctx, cli.RenderOptions{
			InputOptions: cli.InputOptions{Input: *in, Example: *example},
			Output:       *out,
		})
	case "pdf":
		fs := flag.NewFlagSet("pdf", flag.ContinueOnError)
		in := fs.String("in", "", "order JSON file, - for stdin")
		out := fs.String("out", "", "PDF output file")
		example := fs.Bool("example", false, "convert the built-in example order")
		jsonOut := fs.Bool("json", false, "print the result as JSON")
		if err := fs.Parse(args); err != nil {
			return cli.ExitUsage
		}
		orders, err := cli.NewOrderCLI(svc)
		if err != nil {
			logger.Error("init cli", slog.Any("error", err))
			return 1
		}
		return orders.PDFCommand(ctx, cli.PDFOptions{
			InputOptions: cli.InputOptions{Input: *in, Example: *example},
			Output:       *out,
			JSONOutput:   *jsonOut,
		})
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (expected serve, render or pdf)\n", command)
		return cli.ExitUsage
	}
}

func newService(cfg *app.Config, logger *slog.Logger, metrics *observability.Metrics) (*serviceorder.Service, error) {
	if err := files.EnsureDirs(cfg.TempDir, cfg.PDFDir); err != nil {
		return nil, err
	}

	formatter := serviceorder.NewFormatter(cfg.Location())
	templates, err := view.NewEngine(formatter.Funcs())
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	converter, err := pdf.NewProcessConverter(pdf.ProcessConfig{
		Command:        cfg.ConverterBin,
		Args:           cfg.ConverterArgs,
		TempDir:        cfg.TempDir,
		Timeout:        cfg.ConverterTimeout,
		MaxConcurrency: cfg.ConverterMaxConcurrency,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	return serviceorder.NewService(serviceorder.Config{
		Renderer:     templates,
		Converter:    converter,
		Formatter:    formatter,
		PDFDir:       cfg.PDFDir,
		ShowSchedule: cfg.RenderSchedule,
		Metrics:      metrics,
		Logger:       logger,
	}), nil
}

func serve(ctx context.Context, stop context.CancelFunc, cfg *app.Config, logger *slog.Logger, svc *serviceorder.Service, metrics *observability.Metrics) int {
	handler := serviceorder.NewHandler(logger, svc, serviceorder.HandlerConfig{
		BodyLimit:   cfg.AppBodyLimit,
		CacheMaxAge: cfg.PDFCacheMaxAge,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		ServiceOrderHandler: handler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("converter", cfg.ConverterBin),
			slog.String("preview", "/service-order/preview"))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
		return 1
	}
	return 0
}
