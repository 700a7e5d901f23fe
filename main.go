package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tcdb-tools/domarch/logger"
	"github.com/tcdb-tools/domarch/pkg/config"
	"github.com/tcdb-tools/domarch/pkg/runner"
)

func main() {

	VERSION := "2.0.0"

	cdd_dir := flag.String("cdd", "", "directory with per-family CDD hit tables (*.tsv)")
	rescue_dir := flag.String("rescue", "", "directory with per-family rescue tables (*_rescuedDomains.tsv)")
	seq_dir := flag.String("seqs", "", "directory with per-family fasta files (tcdb-<family>.faa)")
	out_dir := flag.String("out", "./output", "output directory for plots, csv tables and the report page")
	holeThreshold := flag.Int("hole-threshold", 50, "minimum hole length kept, in residues")
	charThreshold := flag.Float64("char-threshold", 0.5, "fraction of systems a domain needs to be characteristic")
	minScore := flag.Float64("min-score", 85, "bitscore floor for rescued domains")
	rounds := flag.String("rounds", "1", "comma-separated rescue rounds that may count")
	merge := flag.Bool("merge", true, "extend overlapping hits instead of keeping only the best")
	workers := flag.Int("workers", 4, "parallel family jobs")
	logLevel := flag.String("log-level", envOr("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("domarch", VERSION)
		return
	}

	// Establish logger
	level, err := zapcore.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "unknown log level:", *logLevel)
		os.Exit(2)
	}
	if err := logger.InitLogger(level); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("Bad environment configuration", zap.Error(err))
	}

	// Flags that were given on the command line beat the environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cdd":
			cfg.CDDDir = *cdd_dir
		case "rescue":
			cfg.RescueDir = *rescue_dir
		case "seqs":
			cfg.SeqDir = *seq_dir
		case "out":
			cfg.OutDir = *out_dir
		case "hole-threshold":
			cfg.HoleThreshold = *holeThreshold
		case "char-threshold":
			cfg.CharThreshold = *charThreshold
		case "min-score":
			cfg.RescueMinScore = *minScore
		case "rounds":
			parsed, err := config.ParseRounds(*rounds)
			if err != nil {
				logger.Fatal("Bad -rounds value", zap.Error(err))
			}
			cfg.RescueRounds = parsed
		case "merge":
			cfg.MergeDomains = *merge
		case "workers":
			cfg.Workers = *workers
		}
	})

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Bad configuration", zap.Error(err))
	}

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Reading hit tables from",
		zap.String("cdd", cfg.CDDDir),
		zap.String("rescue", cfg.RescueDir),
		zap.String("rescue_rounds", config.RoundsString(cfg.RescueRounds)))

	r, err := runner.New(cfg, VERSION)
	if err != nil {
		logger.Fatal("Opening the sequence store failed", zap.Error(err))
	}

	_, runErr := r.Run(context.Background())
	if runErr != nil {
		logger.Error("Run finished with failures", zap.Error(runErr))
		logger.Sync()
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
