package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/Zachacious/go-routedoc/internal/config"
	"github.com/Zachacious/go-routedoc/routedoc"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// These variables are set at build time by ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		outputPath string
		configPath string
		logLevel   string
		jsonLogs   bool
	)

	var rootCmd = &cobra.Command{
		Use:   "routedoc [path]",
		Short: "routedoc generates OpenAPI documents from Go routing code and doc comments.",
		Long: `routedoc statically analyzes a Go project: it follows router declarations
through groups, mounts and helper functions, reads the doc comments on route
call sites and handlers, inspects handler bodies for request and response types,
and writes one merged OpenAPI 3 document. It is configured through a
.routedoc.yaml file in the project root.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := "."
			if len(args) == 1 {
				projectPath = args[0]
			}

			cfg, err := config.Load(projectPath, configPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = logLevel
			}
			logger := hclog.New(&hclog.LoggerOptions{
				Name:       "routedoc",
				Level:      hclog.LevelFromString(level),
				Output:     os.Stderr,
				JSONFormat: jsonLogs,
			})

			output := cfg.Output
			if cmd.Flags().Changed("output") {
				output = outputPath
			}
			if !filepath.IsAbs(output) && !cmd.Flags().Changed("output") {
				output = filepath.Join(projectPath, output)
			}

			logger.Info("analyzing project", "path", projectPath)
			doc, err := routedoc.Generate(cmd.Context(), projectPath, cfg, logger)
			if err != nil {
				return err
			}
			if err := routedoc.Write(doc, output); err != nil {
				return err
			}
			logger.Info("wrote OpenAPI document", "output", output)
			return nil
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of routedoc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("routedoc version %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built at: %s\n", date)
		},
	}
	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "openapi.yaml", "Output file for the OpenAPI document (.json for JSON, YAML otherwise)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (default <path>/"+config.FileName+")")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn or error")
	rootCmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
