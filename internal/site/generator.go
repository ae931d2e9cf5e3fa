// Package site orchestrates a full generation run: wipe the output root,
// precompute the grouping policy, render every entity page in parallel, and
// finish with the root index.
//
// Rendering is embarrassingly parallel: each page reads only the shared
// read-only store and policy, and writes only its own file. A single write
// failure aborts the run; output is fully regenerated each time, so there
// is no partial-failure recovery to manage.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/apimark/internal/config"
	apimarkerrors "git.home.luguber.info/inful/apimark/internal/errors"
	"git.home.luguber.info/inful/apimark/internal/grouping"
	"git.home.luguber.info/inful/apimark/internal/linker"
	"git.home.luguber.info/inful/apimark/internal/logfields"
	"git.home.luguber.info/inful/apimark/internal/metrics"
	"git.home.luguber.info/inful/apimark/internal/model"
	"git.home.luguber.info/inful/apimark/internal/page"
	"git.home.luguber.info/inful/apimark/internal/render"
	"git.home.luguber.info/inful/apimark/internal/store"
)

// Generator owns one generation run.
type Generator struct {
	cfg       *config.Config
	store     *store.Store
	policy    *grouping.Policy
	assembler *page.Assembler
	recorder  metrics.Recorder
}

// Report summarizes a completed run.
type Report struct {
	Pages    int
	Skipped  int
	Duration time.Duration
}

// New wires a Generator: the grouping policy is precomputed here, once, and
// shared read-only by the linker and the assembler.
func New(cfg *config.Config, st *store.Store, recorder metrics.Recorder) *Generator {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	policy := grouping.NewPolicy(st, cfg.Grouping)
	lk := linker.New(st, policy, cfg.Markdown.BareLinks, recorder)
	rd := render.NewRenderer(lk, st, render.Options{
		LineBreak:                 cfg.Markdown.LineBreak,
		ForceHardLineBreaks:       cfg.Markdown.ForceHardLineBreaks,
		HardLineBreak:             cfg.Markdown.HardLineBreak,
		UnescapeCodeBlockEntities: cfg.Markdown.UnescapeCodeBlockEntities,
		RewriteInterlinks:         cfg.Markdown.RewriteInterlinks,
	})
	return &Generator{
		cfg:       cfg,
		store:     st,
		policy:    policy,
		assembler: page.NewAssembler(cfg, st, policy, lk, rd),
		recorder:  recorder,
	}
}

// Generate runs the full transform. The output root is wiped and recreated;
// any write failure is fatal to the run.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	start := time.Now()

	if err := g.resetOutput(); err != nil {
		return nil, err
	}

	var renderable []*model.Entity
	skipped := 0
	for _, e := range g.store.All() {
		switch {
		case !e.Identified():
			slog.Warn("Skipping entity with missing identifying fields",
				logfields.UID(e.UID), logfields.Kind(string(e.Kind)))
			g.recorder.EntitySkipped("unidentified")
			skipped++
		case e.Kind == model.KindNamespace || e.Kind.IsType():
			renderable = append(renderable, e)
		default:
			// Member kinds render on their parent's page.
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Render.Concurrency)
	for _, e := range renderable {
		e := e
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			return g.renderOne(e)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := g.writeIndex(); err != nil {
		return nil, err
	}

	report := &Report{
		Pages:    len(renderable) + 1,
		Skipped:  skipped,
		Duration: time.Since(start),
	}
	g.recorder.RunDuration(report.Duration.Seconds())
	slog.Info("Generation complete",
		logfields.Count(report.Pages),
		logfields.DurationMS(float64(report.Duration.Milliseconds())),
		logfields.Path(g.cfg.OutputPath))
	return report, nil
}

func (g *Generator) resetOutput() error {
	out := filepath.Clean(g.cfg.OutputPath)
	if err := os.RemoveAll(out); err != nil {
		return apimarkerrors.Wrap(err, apimarkerrors.CategoryFileSystem, apimarkerrors.SeverityFatal,
			fmt.Sprintf("cannot clear output directory %s", out))
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return apimarkerrors.Wrap(err, apimarkerrors.CategoryFileSystem, apimarkerrors.SeverityFatal,
			fmt.Sprintf("cannot create output directory %s", out))
	}
	return nil
}

func (g *Generator) renderOne(e *model.Entity) error {
	relPath, err := g.assembler.OutputRelPath(e)
	if err != nil {
		return err
	}

	var content []byte
	if e.Kind == model.KindNamespace {
		content, err = g.assembler.NamespacePage(e)
	} else {
		content, err = g.assembler.TypePage(e)
	}
	if err != nil {
		return err
	}

	if err := g.writeFile(relPath, content); err != nil {
		return err
	}
	g.recorder.PageRendered(string(e.Kind))
	slog.Debug("Rendered page", logfields.UID(e.UID), logfields.Path(relPath))
	return nil
}

func (g *Generator) writeIndex() error {
	content, err := g.assembler.IndexPage()
	if err != nil {
		return err
	}
	if err := g.writeFile("index.md", content); err != nil {
		return err
	}
	g.recorder.PageRendered("index")
	return nil
}

func (g *Generator) writeFile(relPath string, content []byte) error {
	full := filepath.Join(g.cfg.OutputPath, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return apimarkerrors.Wrap(err, apimarkerrors.CategoryFileSystem, apimarkerrors.SeverityFatal,
			fmt.Sprintf("cannot create directory for %s", relPath))
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return apimarkerrors.Wrap(err, apimarkerrors.CategoryFileSystem, apimarkerrors.SeverityFatal,
			fmt.Sprintf("cannot write %s", relPath))
	}
	return nil
}
