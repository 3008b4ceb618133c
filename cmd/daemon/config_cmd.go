// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/dramahub/internal/config"
	"github.com/ManuGH/dramahub/internal/version"
	"gopkg.in/yaml.v3"
)

func runConfigCLI(args []string) int {
	return configCLI(args, os.Stdout, os.Stderr)
}

func configCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return 0
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dramahub config validate [--file|-f config.yaml]")
	fmt.Fprintln(w, "  dramahub config dump --effective [--file|-f config.yaml] [--format=yaml|json]")
}

// resolveConfigPath prefers the flag and falls back to $DRAMAHUB_CONFIG.
// An empty result means environment and defaults only.
func resolveConfigPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(config.EnvConfigFile))
}

func describeSource(path string) string {
	if path == "" {
		return "environment and defaults"
	}
	return path
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dramahub config validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := resolveConfigPath(file)
	if _, err := config.NewLoader(configPath, version.Version).Load(); err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", describeSource(configPath), err)
		return 1
	}

	fmt.Fprintf(stdout, "✓ %s is valid\n", describeSource(configPath))
	return 0
}

func runConfigDump(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dramahub config dump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		file      string
		format    string
		effective bool
	)
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")
	fs.BoolVar(&effective, "effective", false, "dump the merged configuration (file + env + defaults)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !effective {
		fmt.Fprintln(stderr, "Error: only --effective dumps are supported")
		return 2
	}

	configPath := resolveConfigPath(file)
	cfg, err := config.NewLoader(configPath, version.Version).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", describeSource(configPath), err)
		return 1
	}

	out := config.ToFileConfig(cfg)
	out.Redact()

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(stderr, "Error: encode yaml: %v\n", err)
			return 1
		}
		_ = enc.Close()
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(stderr, "Error: encode json: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintf(stderr, "Error: unsupported format %q (use yaml or json)\n", format)
		return 2
	}
	return 0
}
