package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/gofidelity/internal/align"
	"github.com/hyperifyio/gofidelity/internal/extract"
	"github.com/hyperifyio/gofidelity/internal/llmcheck"
	"github.com/hyperifyio/gofidelity/internal/normalize"
	"github.com/hyperifyio/gofidelity/internal/report"
	"github.com/hyperifyio/gofidelity/internal/severity"
)

// App drives one batch run: discover pairs, compare each, write
// reports. Every per-pair failure is contained at the pair boundary so
// the batch always completes.
type App struct {
	cfg      Config
	log      zerolog.Logger
	policy   normalize.Policy
	reviewer *llmcheck.Reviewer
}

// Summary aggregates the outcome of a whole batch.
type Summary struct {
	// Processed counts pairs that ran the full pipeline and have a
	// report file; Clean is the subset with zero discrepancies.
	Processed int
	Clean     int
	// Unmatched counts basenames skipped for missing one side.
	Unmatched int
	// Errored counts pairs abandoned on an extraction or write failure.
	Errored int
	// HighFindings counts HIGH-severity discrepancies across the batch;
	// the CLI maps a nonzero count to a nonzero exit code.
	HighFindings int
}

// New builds an App from cfg. The logger is passed in rather than taken
// from the global so summary counts and log output stay reproducible in
// tests.
func New(cfg Config, logger zerolog.Logger) *App {
	a := &App{
		cfg: cfg,
		log: logger,
		policy: normalize.Policy{
			CaseFold:       cfg.CaseFold,
			StripPunct:     cfg.StripPunct,
			StripArtifacts: cfg.StripArtifacts,
		},
	}
	if cfg.LLMModel != "" {
		tcfg := openai.DefaultConfig(cfg.LLMAPIKey)
		if cfg.LLMBaseURL != "" {
			tcfg.BaseURL = cfg.LLMBaseURL
		}
		a.reviewer = &llmcheck.Reviewer{
			Client: openai.NewClientWithConfig(tcfg),
			Model:  cfg.LLMModel,
		}
	}
	return a
}

// pair is one comparable basename: exactly one PDF and one HTML file.
type pair struct {
	Basename string
	PDFPath  string
	HTMLPath string
}

// Run processes every pair in the configured directory sequentially and
// returns the batch summary. The returned error covers batch-level
// failures only (an unreadable directory); pair failures are logged,
// counted and skipped.
func (a *App) Run(ctx context.Context) (Summary, error) {
	pairs, unmatched, err := discoverPairs(a.cfg.Dir)
	if err != nil {
		return Summary{}, fmt.Errorf("scan %s: %w", a.cfg.Dir, err)
	}

	var sum Summary
	for _, base := range unmatched {
		a.log.Warn().Str("basename", base).Msg("unmatched pair, skipping")
		sum.Unmatched++
	}

	results := make([]report.PairResult, 0, len(pairs))
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, runs, err := a.processPair(ctx, p)
		if err != nil {
			sum.Errored++
			a.log.Error().Err(err).
				Str("pair", p.Basename).
				Str("kind", errorKind(err)).
				Msg("pair failed")
			continue
		}
		sum.Processed++
		if len(runs) == 0 {
			sum.Clean++
		}
		for _, fd := range res.Findings {
			if fd.Severity == severity.High {
				sum.HighFindings++
			}
		}
		results = append(results, res)
		a.log.Info().
			Str("pair", p.Basename).
			Int("diffs", len(runs)).
			Stringer("severity", severity.Highest(runs)).
			Msg("pair checked")
	}

	a.writeBatchReports(results)

	a.log.Info().
		Int("processed", sum.Processed).
		Int("clean", sum.Clean).
		Int("unmatched", sum.Unmatched).
		Int("errored", sum.Errored).
		Int("high", sum.HighFindings).
		Msg("run complete")
	return sum, nil
}

// processPair runs extract -> normalize -> align -> report for one
// pair. It returns the pair's findings and its diff runs.
func (a *App) processPair(ctx context.Context, p pair) (report.PairResult, []align.Run, error) {
	sourceRaw, err := mustExtractor(p.PDFPath).Extract(p.PDFPath)
	if err != nil {
		return report.PairResult{}, nil, err
	}
	renderedRaw, err := mustExtractor(p.HTMLPath).Extract(p.HTMLPath)
	if err != nil {
		return report.PairResult{}, nil, err
	}

	sourceTokens := a.policy.Tokens(sourceRaw)
	renderedTokens := a.policy.Tokens(renderedRaw)
	runs := align.Diff(sourceTokens, renderedTokens)

	csvPath := filepath.Join(a.cfg.Dir, p.Basename+".qa.csv")
	if err := report.WriteCSV(csvPath, runs); err != nil {
		return report.PairResult{}, nil, err
	}

	findings := make([]report.Finding, 0, len(runs))
	for _, r := range runs {
		findings = append(findings, report.Finding{
			Type:     report.KindLabel(r.Kind),
			Text:     r.Text,
			Severity: severity.Classify(r),
			Source:   "algorithmic",
		})
	}

	if a.reviewer != nil {
		llmFindings, err := a.reviewer.Review(ctx, p.Basename,
			normalize.Join(sourceTokens), normalize.Join(renderedTokens))
		if err != nil {
			// Advisory pass: the algorithmic result stands on its own.
			a.log.Warn().Err(err).Str("pair", p.Basename).Msg("llm review failed; continuing")
		}
		for _, fd := range llmFindings {
			findings = append(findings, report.Finding{
				Type:     "LLM review",
				Text:     fd.Description,
				Severity: severity.Parse(fd.Severity),
				Source:   "llm",
			})
		}
	}

	return report.PairResult{Basename: p.Basename, Findings: findings}, runs, nil
}

func (a *App) writeBatchReports(results []report.PairResult) {
	outDir := a.cfg.OutDir
	if outDir == "" {
		outDir = a.cfg.Dir
	}
	if a.cfg.Format == "markdown" || a.cfg.Format == "all" {
		path := filepath.Join(outDir, "qa_report.md")
		if err := report.WriteMarkdown(path, results); err != nil {
			a.log.Error().Err(err).Msg("write markdown report")
		}
	}
	if a.cfg.Format == "json" || a.cfg.Format == "all" {
		path := filepath.Join(outDir, "qa_report.json")
		if err := report.WriteJSON(path, results); err != nil {
			a.log.Error().Err(err).Msg("write json report")
		}
	}
}

// discoverPairs groups directory entries by basename. Basenames with
// exactly one PDF and exactly one HTML/XHTML file become pairs, in
// sorted order; everything else with a recognized extension lands in
// unmatched. Unrelated files are ignored.
func discoverPairs(dir string) ([]pair, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	type group struct {
		pdfs  []string
		htmls []string
	}
	groups := make(map[string]*group)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		base := strings.TrimSuffix(name, filepath.Ext(name))
		g := groups[base]
		switch ext {
		case ".pdf":
			if g == nil {
				g = &group{}
				groups[base] = g
			}
			g.pdfs = append(g.pdfs, filepath.Join(dir, name))
		case ".html", ".xhtml", ".htm":
			if g == nil {
				g = &group{}
				groups[base] = g
			}
			g.htmls = append(g.htmls, filepath.Join(dir, name))
		}
	}

	var pairs []pair
	var unmatched []string
	for base, g := range groups {
		if len(g.pdfs) == 1 && len(g.htmls) == 1 {
			pairs = append(pairs, pair{Basename: base, PDFPath: g.pdfs[0], HTMLPath: g.htmls[0]})
			continue
		}
		unmatched = append(unmatched, base)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Basename < pairs[j].Basename })
	sort.Strings(unmatched)
	return pairs, unmatched, nil
}

// mustExtractor resolves the extractor for a discovered path. Discovery
// only admits supported extensions, so a miss here is a programming
// error, not an input error.
func mustExtractor(path string) extract.Extractor {
	e, ok := extract.ForPath(path)
	if !ok {
		panic(fmt.Sprintf("no extractor for %s", path))
	}
	return e
}

func errorKind(err error) string {
	var xerr *extract.Error
	if errors.As(err, &xerr) {
		return "extraction"
	}
	var werr *report.WriteError
	if errors.As(err, &werr) {
		return "write"
	}
	return "internal"
}
