package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gofidelity/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath     string
		format         string
		outDir         string
		caseFold       bool
		stripPunct     bool
		stripArtifacts bool
		llmBaseURL     string
		llmModel       string
		llmKey         string
		verbose        bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&format, "format", "csv", "Batch report format: csv, markdown, json or all (csv = per-pair reports only)")
	flag.StringVar(&outDir, "out", "", "Directory for batch reports (default: the scanned directory)")
	flag.BoolVar(&caseFold, "casefold", false, "Lowercase tokens before comparison")
	flag.BoolVar(&stripPunct, "strip-punct", false, "Strip punctuation from tokens before comparison")
	flag.BoolVar(&stripArtifacts, "strip-artifacts", false, "Strip PDF layout artifacts (footers, TOC dot leaders) before comparison")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL for the optional review pass")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name; enables the LLM review pass when set")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for the OpenAI-compatible server")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] DIR\n\nCompares each <basename>.pdf against <basename>.html/.xhtml in DIR\nand writes one <basename>.qa.csv fidelity report per pair.\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := app.Config{
		Dir:            flag.Arg(0),
		Format:         format,
		OutDir:         outDir,
		CaseFold:       caseFold,
		StripPunct:     stripPunct,
		StripArtifacts: stripArtifacts,
		LLMBaseURL:     llmBaseURL,
		LLMModel:       llmModel,
		LLMAPIKey:      llmKey,
		Verbose:        verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	summary, err := run(cfg)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(2)
	}
	// Exit code policy: partial per-pair failure is a normal outcome and
	// exits 0; HIGH-severity discrepancies exit 1 so CI can gate on them.
	if summary.HighFindings > 0 {
		os.Exit(1)
	}
}

func run(cfg app.Config) (app.Summary, error) {
	return app.New(cfg, log.Logger).Run(context.Background())
}
