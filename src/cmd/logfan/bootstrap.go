// FILE: logfan/src/cmd/logfan/bootstrap.go
package main

import (
	"context"
	"fmt"
	"strings"

	"logfan/src/internal/config"
	"logfan/src/internal/service"
	"logfan/src/internal/version"

	"github.com/lixenwraith/log"
)

// bootstrap assembles the logging pipeline and, when enabled, the
// embedded HTTP server in front of it.
func bootstrap(ctx context.Context, cfg *config.Config) (*service.Service, *demoServer, error) {
	svc, err := service.New(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build pipeline: %w", err)
	}

	if err := svc.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("start pipeline: %w", err)
	}

	var server *demoServer
	if cfg.Server.Enabled {
		server = newDemoServer(cfg, svc)
		if err := server.Start(); err != nil {
			svc.Shutdown()
			return nil, nil, fmt.Errorf("start server: %w", err)
		}
	}

	logger.Info("msg", "Logfan started",
		"version", version.Short(),
		"sinks", len(svc.Stats().Sinks),
		"server", cfg.Server.Enabled)

	return svc, server, nil
}

// initializeLogger sets up the pipeline's own diagnostic logger.
func initializeLogger(cfg *config.Config, flagCfg *FlagConfig) error {
	logger = log.NewLogger()

	var configArgs []string

	if flagCfg.Quiet {
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=false",
			"level=255")

		return logger.ApplyConfigString(configArgs...)
	}

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	configArgs = append(configArgs, fmt.Sprintf("level=%d", levelValue))

	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stdout")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	case "file":
		configArgs = append(configArgs,
			"enable_stdout=false",
			fmt.Sprintf("directory=%s", cfg.Logging.Directory),
			"name=logfan")

	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	return logger.ApplyConfigString(configArgs...)
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
