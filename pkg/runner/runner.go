// Batch driver: walks the input directories and derives every family found,
// a worker pool wide. One broken family never aborts the run.

package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tcdb-tools/domarch/internal/util"
	"github.com/tcdb-tools/domarch/logger"
	"github.com/tcdb-tools/domarch/pkg/config"
	"github.com/tcdb-tools/domarch/pkg/db"
	"github.com/tcdb-tools/domarch/pkg/export"
	"github.com/tcdb-tools/domarch/pkg/model"
	"github.com/tcdb-tools/domarch/pkg/parse"
	"github.com/tcdb-tools/domarch/pkg/render"
)

// slowFamily is the duration past which a single family job gets a warning.
const slowFamily = 30 * time.Second

// Runner holds everything a batch run needs.
type Runner struct {
	Cfg     config.Config
	SeqDB   *db.SequenceDB
	Version string
}

// New opens the sequence store when one is configured.
func New(cfg config.Config, version string) (*Runner, error) {
	r := &Runner{Cfg: cfg, Version: version}

	if cfg.SeqDir != "" {
		seqdb, err := db.NewSequenceDB(cfg.SeqDir)
		if err != nil {
			return nil, err
		}
		r.SeqDB = seqdb
	}

	return r, nil
}

// Run derives every family in the configured directories and writes plots,
// CSV tables and the report page under OutDir. The returned error aggregates
// the per-family failures; the summary covers every family either way.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {

	runID := "run-" + uuid.New().String()
	sum := NewRunSummary(runID)

	cddFiles, err := listCDDFiles(r.Cfg.CDDDir)
	if err != nil {
		return sum, err
	}
	rescueFiles, err := listRescueFiles(r.Cfg.RescueDir)
	if err != nil {
		return sum, err
	}
	if len(cddFiles)+len(rescueFiles) == 0 {
		return sum, fmt.Errorf("no hit tables under the input directories")
	}

	for _, sub := range []string{"plots", "csv"} {
		if err := util.EnsureDir(path.Join(r.Cfg.OutDir, sub)); err != nil {
			return sum, err
		}
	}

	logger.Info("Run starting",
		zap.String("run_id", runID),
		zap.Int("cdd_files", len(cddFiles)),
		zap.Int("rescue_files", len(rescueFiles)),
		zap.Int("workers", r.Cfg.Workers))

	var mu sync.Mutex
	var failures error

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Cfg.Workers)

	submit := func(file string, rescue bool) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.runFamilyFile(ctx, file, rescue, sum); err != nil {
				mu.Lock()
				failures = multierr.Append(failures, err)
				mu.Unlock()
			}
			return nil
		})
	}

	for _, f := range cddFiles {
		submit(f, false)
	}
	for _, f := range rescueFiles {
		submit(f, true)
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}

	if err := r.writeReport(sum); err != nil {
		failures = multierr.Append(failures, fmt.Errorf("report: %w", err))
	}

	families, systems, skippedSys, skippedRec, failed := sum.Totals()
	logger.Info("Run finished",
		zap.String("run_id", runID),
		zap.Int("families", families),
		zap.Int("systems", systems),
		zap.Int("skipped_systems", skippedSys),
		zap.Int("skipped_records", skippedRec),
		zap.Int("failed_families", failed))

	return sum, failures
}

// runFamilyFile parses one hit table, assembles its family and writes the
// artifacts. Per-system problems are skipped and counted, not returned.
func (r *Runner) runFamilyFile(ctx context.Context, file string, rescue bool, sum *RunSummary) error {

	jobID := "job-" + uuid.New().String()
	start := time.Now()

	groups, skippedRecords, parseErr := parseTable(file, rescue)
	famID := familyID(file, rescue, groups)

	job := sum.NewJob(jobID, famID, rescue)
	if parseErr != nil {
		sum.FailJob(job.ID, parseErr)
		return fmt.Errorf("family %s: %w", famID, parseErr)
	}
	sum.SetRunning(job.ID)

	jlog := logger.With(
		zap.String("job_id", job.ID),
		zap.String("family", famID),
		zap.Bool("rescue", rescue))

	if err := ctx.Err(); err != nil {
		sum.FailJob(job.ID, err)
		return err
	}

	lengths := r.lookupLengths(jlog, famID)

	opt := model.BuildOptions{
		Merge:         r.Cfg.MergeDomains,
		HoleThreshold: r.Cfg.HoleThreshold,
	}

	fam := model.NewFamily(famID)
	skippedSystems := 0
	for _, grp := range groups {
		length := grp.Length
		if length == 0 {
			length = lengths[grp.Accession]
		}

		sys, err := model.BuildSystem(grp.Accession, grp.SysID, grp.Family, length, grp.Hits, opt)
		if err != nil {
			skippedSystems++
			jlog.Warn("Skipping system",
				zap.String("system", grp.SysID),
				zap.Error(err))
			continue
		}
		fam.Append(sys)
	}

	empty, err := r.aggregate(fam, rescue)
	if err != nil {
		sum.FailJob(job.ID, err)
		return fmt.Errorf("family %s: %w", famID, err)
	}
	if empty {
		jlog.Warn("Family empty after filtering")
	}

	plots, csvPath, err := r.writeArtifacts(fam, rescue)
	if err != nil {
		sum.FailJob(job.ID, err)
		return fmt.Errorf("family %s: %w", famID, err)
	}

	sum.CompleteJob(job.ID, FamilyResult{
		Systems:        len(fam.Systems),
		SkippedSystems: skippedSystems,
		SkippedRecords: skippedRecords,
		Empty:          empty,
		Characteristic: fam.Stats.Characteristic,
		Plots:          plots,
		CSV:            csvPath,
	})

	duration := time.Since(start)
	jlog.Debug("Family done",
		zap.Int("systems", len(fam.Systems)),
		zap.Duration("duration", duration))
	if duration > slowFamily {
		jlog.Warn("Slow family", zap.Duration("duration", duration))
	}

	return nil
}

// lookupLengths pulls the family's protein lengths from the sequence store.
// A missing fasta is not fatal: rescue tables can embed lengths, and systems
// without any length are skipped one by one later.
func (r *Runner) lookupLengths(jlog *zap.Logger, famID string) map[string]int {
	if r.SeqDB == nil {
		return map[string]int{}
	}

	lengths, err := r.SeqDB.Lengths(famID)
	if err != nil {
		var nse *db.NoSequenceError
		if errors.As(err, &nse) {
			jlog.Warn("No sequence file for family", zap.Error(err))
		} else {
			jlog.Error("Reading sequence file failed", zap.Error(err))
		}
		return map[string]int{}
	}
	return lengths
}

// aggregate freezes the family statistics. EmptyFamily only flags the row.
func (r *Runner) aggregate(fam *model.Family, rescue bool) (empty bool, err error) {

	if rescue {
		filt := model.RescueFilter{
			MinScore: r.Cfg.RescueMinScore,
			Rounds:   r.Cfg.RescueRounds,
		}
		_, err = fam.AggregateRescue(r.Cfg.CharThreshold, filt)
	} else {
		_, err = fam.Aggregate(r.Cfg.CharThreshold)
	}

	if err != nil {
		if !errors.Is(err, model.EmptyFamily) {
			return false, err
		}
		empty = true
	}

	return empty || len(fam.Systems) == 0, nil
}

// writeArtifacts renders every plot and the CSV table for one family.
// Rescue families get a `_rescue` key so they never collide with the
// standard run of the same family. Paths come back relative to OutDir,
// which is where the report page lives.
func (r *Runner) writeArtifacts(fam *model.Family, rescue bool) ([]string, string, error) {

	key := fam.FamID
	if rescue {
		key += "_rescue"
	}

	plotDir := path.Join(r.Cfg.OutDir, "plots", key)
	if err := util.EnsureDir(plotDir); err != nil {
		return nil, "", err
	}

	var plots []string
	for _, p := range render.FamilyPlots(fam) {
		rel := path.Join("plots", key, p.Name+".svg")
		if err := writeFile(path.Join(r.Cfg.OutDir, rel), func(f *os.File) error {
			return p.Render(f, fam)
		}); err != nil {
			return nil, "", fmt.Errorf("plot %s: %w", rel, err)
		}
		plots = append(plots, rel)
	}

	csvRel := path.Join("csv", key+".csv")
	if err := writeFile(path.Join(r.Cfg.OutDir, csvRel), func(f *os.File) error {
		return export.WriteFamily(f, fam)
	}); err != nil {
		return nil, "", fmt.Errorf("csv %s: %w", csvRel, err)
	}

	return plots, csvRel, nil
}

// writeReport renders the index page over every family job.
func (r *Runner) writeReport(sum *RunSummary) error {

	data := render.ReportData{
		RunID:   sum.RunID,
		Version: r.Version,
	}
	for _, job := range sum.Jobs() {
		data.Families = append(data.Families, render.ReportFamily{
			FamID:          job.FamID,
			Systems:        job.Systems,
			SkippedSystems: job.SkippedSystems,
			SkippedRecords: job.SkippedRecords,
			Empty:          job.Empty,
			Rescue:         job.Rescue,
			Failed:         job.Status == FamilyJobFailed,
			Characteristic: job.Characteristic,
			Plots:          job.Plots,
			CSV:            job.CSV,
		})
	}

	return writeFile(path.Join(r.Cfg.OutDir, "index.html"), func(f *os.File) error {
		return render.RenderReportPage(f, data)
	})
}

func parseTable(file string, rescue bool) ([]*parse.SystemHits, int, error) {
	if rescue {
		return parse.ParseRescueFile(file)
	}
	return parse.ParseCDDFile(file)
}

// familyID names the job. Rescue tables encode the family in the file name;
// CDD tables carry it in every row.
func familyID(file string, rescue bool, groups []*parse.SystemHits) string {
	if rescue {
		return parse.FamilyFromRescuePath(file)
	}
	if len(groups) > 0 {
		return groups[0].Family
	}
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

// listCDDFiles globs *.tsv, leaving rescue tables to their own directory
// listing even when both point at the same place.
func listCDDFiles(dir string) ([]string, error) {
	files, err := listTables(dir, "*.tsv")
	if err != nil {
		return nil, err
	}

	kept := files[:0]
	for _, f := range files {
		if !strings.HasSuffix(f, parse.RescueSuffix) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

func listRescueFiles(dir string) ([]string, error) {
	return listTables(dir, "*"+parse.RescueSuffix)
}

func listTables(dir, pattern string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func writeFile(name string, fill func(f *os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
