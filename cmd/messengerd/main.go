// messengerd is the notification dispatch daemon: it accepts issue events
// over HTTP and posts formatted messages to each project's chat webhook.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/claves/redmine-messenger/internal/api"
	"github.com/claves/redmine-messenger/internal/config"
	"github.com/claves/redmine-messenger/internal/directory"
	"github.com/claves/redmine-messenger/internal/locale"
	"github.com/claves/redmine-messenger/internal/mention"
	"github.com/claves/redmine-messenger/internal/notifier"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		os.Stderr.WriteString("invalid environment: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Flags override the environment.
	flag.StringVar(&cfg.ListenAddr, "listen-address", cfg.ListenAddr, "The address the event intake binds to.")
	flag.StringVar(&cfg.MetricsAddr, "metrics-bind-address", cfg.MetricsAddr, "The address the metric endpoint binds to.")
	flag.StringVar(&cfg.ProjectsFile, "projects-file", cfg.ProjectsFile, "Path to the projects YAML file.")
	flag.StringVar(&cfg.DefaultLanguage, "default-language", cfg.DefaultLanguage, "Language used for message labels (en, de, fr).")
	flag.IntVar(&cfg.WebhookTimeoutSeconds, "webhook-timeout", cfg.WebhookTimeoutSeconds, "Webhook request timeout in seconds.")
	flag.BoolVar(&cfg.WebhookInsecureSkipVerify, "webhook-insecure-skip-verify", cfg.WebhookInsecureSkipVerify, "Skip TLS certificate verification for webhook endpoints.")
	flag.IntVar(&cfg.RateLimitPerMinute, "rate-limit-per-minute", cfg.RateLimitPerMinute, "Maximum notifications per project per minute.")
	flag.Parse()

	// Setup logger
	logConfig := zap.NewProductionConfig()
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := logConfig.Build()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting messengerd",
		zap.String("listen_address", cfg.ListenAddr),
		zap.String("projects_file", cfg.ProjectsFile),
		zap.String("default_language", cfg.DefaultLanguage),
	)

	projects, err := config.LoadProjects(cfg.ProjectsFile)
	if err != nil {
		logger.Fatal("Unable to load projects file", zap.Error(err))
	}
	logger.Info("Projects loaded", zap.Int("projects", len(projects.Projects)))

	dir := directory.New(logger, projects.Users)
	resolver := mention.NewResolver(dir)

	sender := notifier.NewWebhookSender(logger, notifier.WebhookSenderConfig{
		TimeoutSeconds:     cfg.WebhookTimeoutSeconds,
		InsecureSkipVerify: cfg.WebhookInsecureSkipVerify,
		AuthToken:          cfg.WebhookAuthToken,
	})

	assembler := notifier.NewAssembler(logger, sender, resolver, notifier.AssemblerOptions{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		DefaultLanguage:    locale.Match(cfg.DefaultLanguage),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	assembler.Start(ctx)

	intake := api.NewEventsHandler(logger, assembler, projects, api.EventsHandlerOptions{})
	mux := http.NewServeMux()
	intake.Register(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	intakeSrv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("Event intake listening", zap.String("address", cfg.ListenAddr))
		errCh <- intakeSrv.ListenAndServe()
	}()
	go func() {
		logger.Info("Metrics listening", zap.String("address", cfg.MetricsAddr))
		errCh <- metricsSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := intakeSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Intake shutdown incomplete", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Metrics shutdown incomplete", zap.Error(err))
	}
}
