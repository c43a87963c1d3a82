package observability

import (
	"context"
	"strings"

	"github.com/draftday/draftsim/internal/config"
	"github.com/draftday/draftsim/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// InitUptrace wires the global OpenTelemetry providers to Uptrace and
// installs the log mirror when log export is enabled. The returned
// shutdown function flushes pending telemetry.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.UptraceEnabled {
		return tracingDisabled(logger, "UPTRACE_ENABLED=false"), nil
	}
	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		return tracingDisabled(logger, "UPTRACE_DSN empty"), nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)

	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newUptraceLogMirror(cfg.ServiceVersion))
	} else {
		logging.SetMirror(nil)
	}

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}, nil
}

func tracingDisabled(logger *logging.Logger, reason string) func(context.Context) error {
	logging.SetMirror(nil)
	logger.Info("uptrace disabled", "reason", reason)
	return func(context.Context) error { return nil }
}
