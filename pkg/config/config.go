// Run configuration: defaults, then .env / environment, then flags on top.

package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tcdb-tools/domarch/internal/util"
	"github.com/tcdb-tools/domarch/logger"
	"github.com/tcdb-tools/domarch/pkg/model"
)

// Config is everything a run needs. Zero directories are allowed only where
// Validate says so.
type Config struct {
	CDDDir    string
	RescueDir string
	SeqDir    string
	OutDir    string

	MergeDomains   bool
	HoleThreshold  int
	CharThreshold  float64
	RescueMinScore float64
	RescueRounds   map[int]bool
	Workers        int
}

func Default() Config {
	return Config{
		OutDir:         "./output",
		MergeDomains:   true,
		HoleThreshold:  50,
		CharThreshold:  0.5,
		RescueMinScore: 85,
		RescueRounds:   map[int]bool{1: true},
		Workers:        4,
	}
}

// FromEnv loads .env when present and overlays TCDB_* variables on the
// defaults. Unparsable values are configuration errors and abort the run
// before any processing.
func FromEnv() (Config, error) {

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env found, using local environment")
	}

	cfg := Default()

	cfg.CDDDir = envString("TCDB_CDD_DIR", cfg.CDDDir)
	cfg.RescueDir = envString("TCDB_RESCUE_DIR", cfg.RescueDir)
	cfg.SeqDir = envString("TCDB_SEQ_DIR", cfg.SeqDir)
	cfg.OutDir = envString("TCDB_OUT_DIR", cfg.OutDir)

	var err error
	if cfg.MergeDomains, err = envBool("TCDB_MERGE_DOMAINS", cfg.MergeDomains); err != nil {
		return cfg, err
	}
	if cfg.HoleThreshold, err = envInt("TCDB_HOLE_THRESHOLD", cfg.HoleThreshold); err != nil {
		return cfg, err
	}
	if cfg.CharThreshold, err = envFloat("TCDB_CHAR_THRESHOLD", cfg.CharThreshold); err != nil {
		return cfg, err
	}
	if cfg.RescueMinScore, err = envFloat("TCDB_RESCUE_MIN_SCORE", cfg.RescueMinScore); err != nil {
		return cfg, err
	}
	if cfg.Workers, err = envInt("TCDB_WORKERS", cfg.Workers); err != nil {
		return cfg, err
	}

	if rounds := os.Getenv("TCDB_RESCUE_ROUNDS"); rounds != "" {
		cfg.RescueRounds, err = ParseRounds(rounds)
		if err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Validate is the startup gate: anything wrong here invalidates every result,
// so the caller must abort.
func (c Config) Validate() error {

	if c.CharThreshold < 0 || c.CharThreshold > 1 {
		return fmt.Errorf("%w: characteristic threshold %v not in [0,1]", model.InvalidThreshold, c.CharThreshold)
	}
	if c.HoleThreshold < 0 {
		return fmt.Errorf("%w: hole threshold %d is negative", model.InvalidThreshold, c.HoleThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if len(c.RescueRounds) == 0 {
		return fmt.Errorf("rescue rounds must name at least one round")
	}

	if c.CDDDir == "" && c.RescueDir == "" {
		return fmt.Errorf("no input: set a CDD directory or a rescue directory")
	}
	if c.CDDDir != "" && !util.DirExists(c.CDDDir) {
		return fmt.Errorf("CDD directory %s does not exist", c.CDDDir)
	}
	if c.RescueDir != "" && !util.DirExists(c.RescueDir) {
		return fmt.Errorf("rescue directory %s does not exist", c.RescueDir)
	}

	// CDD rows never embed lengths, so they cannot do without sequences.
	if c.CDDDir != "" && c.SeqDir == "" {
		return fmt.Errorf("CDD input needs a sequence directory for protein lengths")
	}
	if c.SeqDir != "" && !util.DirExists(c.SeqDir) {
		return fmt.Errorf("sequence directory %s does not exist", c.SeqDir)
	}

	return nil
}

// ParseRounds reads a comma-separated round list like "1,2".
func ParseRounds(s string) (map[int]bool, error) {
	rounds := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad rescue round %q", part)
		}
		rounds[n] = true
	}
	if len(rounds) == 0 {
		return nil, fmt.Errorf("empty rescue round list")
	}
	return rounds, nil
}

// RoundsString renders the accepted set back to the flag/env form.
func RoundsString(rounds map[int]bool) string {
	keys := make([]int, 0, len(rounds))
	for r := range rounds {
		keys = append(keys, r)
	}
	sort.Ints(keys)
	parts := make([]string, len(keys))
	for i, r := range keys {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: bad integer %q", key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: bad number %q", key, v)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: bad boolean %q", key, v)
	}
	return b, nil
}
