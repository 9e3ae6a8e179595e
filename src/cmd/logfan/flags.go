// FILE: logfan/src/cmd/logfan/flags.go
package main

import (
	"flag"
	"fmt"
	"os"
)

// FlagConfig holds parsed command-line flags.
type FlagConfig struct {
	ConfigFile  string
	ShowVersion bool
	Quiet       bool
}

var (
	configFile  = flag.String("config", "", "Config file path")
	showVersion = flag.Bool("version", false, "Show version information")
	quiet       = flag.Bool("quiet", false, "Suppress diagnostic output")
)

func init() {
	flag.Usage = customUsage
}

func customUsage() {
	fmt.Fprintf(os.Stderr, "Logfan - Leveled Log Routing Service\n\n")
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -config string\n\tConfig file path\n")
	fmt.Fprintf(os.Stderr, "  -version\n\tShow version information\n")
	fmt.Fprintf(os.Stderr, "  -quiet\n\tSuppress diagnostic output\n")

	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  # Run with default config\n")
	fmt.Fprintf(os.Stderr, "  %s\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "  # Run with custom config\n")
	fmt.Fprintf(os.Stderr, "  %s --config /etc/logfan.toml\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "Environment Variables:\n")
	fmt.Fprintf(os.Stderr, "  LOGFAN_CONFIG_FILE   Config file path\n")
	fmt.Fprintf(os.Stderr, "  LOGFAN_CONFIG_DIR    Config directory\n")
	fmt.Fprintf(os.Stderr, "  LOGFAN_ENVIRONMENT   Deployment environment (production selects JSON console)\n")
}

func parseFlags() (*FlagConfig, error) {
	flag.Parse()

	return &FlagConfig{
		ConfigFile:  *configFile,
		ShowVersion: *showVersion,
		Quiet:       *quiet,
	}, nil
}
