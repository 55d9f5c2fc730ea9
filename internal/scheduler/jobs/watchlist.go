package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/internal/report"
	"github.com/wonny/caiwu/pkg/logger"
)

// Analyzer runs the analysis pipeline for one company
type Analyzer interface {
	Analyze(ctx context.Context, sec contracts.Security) (*contracts.AnalysisReport, error)
}

// WatchlistConfig holds the watchlist job settings
type WatchlistConfig struct {
	Securities  []contracts.Security
	Schedule    string
	Dir         string // report output directory
	Theme       string
	Concurrency int
}

// WatchlistJob re-analyses every watched company and writes JSON and HTML reports
type WatchlistJob struct {
	analyzer Analyzer
	cfg      WatchlistConfig
	logger   *logger.Logger

	mu   sync.Mutex
	last map[string]float64 // code → 직전 업종 조정 점수
}

// NewWatchlistJob creates a new watchlist job
func NewWatchlistJob(a Analyzer, cfg WatchlistConfig, log *logger.Logger) *WatchlistJob {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.Theme == "" {
		cfg.Theme = "medium"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WatchlistJob{
		analyzer: a,
		cfg:      cfg,
		logger:   log.Component("watchlist"),
		last:     make(map[string]float64),
	}
}

// Name returns the job name
func (j *WatchlistJob) Name() string {
	return "watchlist_analysis"
}

// Schedule returns the cron schedule
func (j *WatchlistJob) Schedule() string {
	return j.cfg.Schedule
}

// Run analyses the watchlist. Individual failures are logged; the run fails
// only when no company could be analysed.
func (j *WatchlistJob) Run(ctx context.Context) error {
	if len(j.cfg.Securities) == 0 {
		j.logger.Debug("Watchlist is empty")
		return nil
	}

	var (
		mu     sync.Mutex
		failed []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(j.cfg.Concurrency)

	for _, sec := range j.cfg.Securities {
		sec := sec
		g.Go(func() error {
			if err := j.analyzeOne(ctx, sec); err != nil {
				j.logger.WithSecurity(sec.Code, sec.Name).WithError(err).Warn("Watchlist analysis failed")
				mu.Lock()
				failed = append(failed, sec.Code)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	j.logger.WithFields(map[string]interface{}{
		"total":  len(j.cfg.Securities),
		"failed": len(failed),
	}).Info("Watchlist analysis completed")

	if len(failed) == len(j.cfg.Securities) {
		return fmt.Errorf("all %d watchlist analyses failed: %s", len(failed), strings.Join(failed, ","))
	}
	return nil
}

func (j *WatchlistJob) analyzeOne(ctx context.Context, sec contracts.Security) error {
	rep, err := j.analyzer.Analyze(ctx, sec)
	if err != nil {
		return err
	}

	if _, err := report.SaveJSON(j.cfg.Dir, rep); err != nil {
		return err
	}
	if _, err := report.SaveHTML(j.cfg.Dir, rep, j.cfg.Theme); err != nil {
		return err
	}

	score := rep.Industry.NormalizedScore
	j.mu.Lock()
	prev, seen := j.last[rep.Security.Code]
	j.last[rep.Security.Code] = score
	j.mu.Unlock()

	log := j.logger.WithSecurity(rep.Security.Code, rep.Security.Name).WithField("score", score)
	if seen && contracts.RiskFromScore(prev) != contracts.RiskFromScore(score) {
		log.WithFields(map[string]interface{}{
			"previous": prev,
			"risk":     rep.Industry.RiskLabel,
		}).Warn("Risk level changed")
	} else {
		log.Debug("Watchlist report written")
	}
	return nil
}

// LastScore returns the most recent industry-adjusted score of a watched company
func (j *WatchlistJob) LastScore(code string) (float64, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	v, ok := j.last[code]
	return v, ok
}

// ParseWatchlist turns "code" or "code:name" entries into securities
func ParseWatchlist(entries []string) ([]contracts.Security, error) {
	out := make([]contracts.Security, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		code, name, _ := strings.Cut(strings.TrimSpace(e), ":")
		valid, err := contracts.ValidateCode(code)
		if err != nil {
			return nil, fmt.Errorf("watchlist entry %q: %w", e, err)
		}
		if seen[valid] {
			continue
		}
		seen[valid] = true
		out = append(out, contracts.Security{Code: valid, Name: strings.TrimSpace(name)})
	}
	return out, nil
}
