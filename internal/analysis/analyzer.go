package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/classifier"
	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/internal/fundamentals"
	"github.com/wonny/caiwu/internal/scoring"
	"github.com/wonny/caiwu/pkg/logger"
)

// NewsProvider finds recent headlines about a company
type NewsProvider interface {
	Headlines(ctx context.Context, name, code string) ([]contracts.Headline, error)
}

// Analyzer runs the whole pipeline for one company:
// statements → derived metrics → classification → both scores → narrative
// ⭐ SSOT: 분석 파이프라인 조율은 여기서만
type Analyzer struct {
	source         contracts.StatementSource
	table          *benchmark.Table
	classifier     *classifier.Classifier
	industryScorer *scoring.IndustryScorer
	healthScorer   *scoring.HealthScorer
	qualityGate    *fundamentals.QualityGate
	news           NewsProvider
	benchmarkHash  string
	now            func() time.Time
	logger         *logger.Logger
}

// NewAnalyzer creates a new analyzer. source may be nil when only Score is used;
// news may be nil to skip headlines.
func NewAnalyzer(source contracts.StatementSource, table *benchmark.Table, news NewsProvider, log *logger.Logger) (*Analyzer, error) {
	if table == nil {
		table = benchmark.Default()
	}
	if log == nil {
		log = logger.Nop()
	}

	hash, err := benchmark.Hash(table)
	if err != nil {
		return nil, fmt.Errorf("hash benchmark table: %w", err)
	}

	c := classifier.New(table, log)
	return &Analyzer{
		source:         source,
		table:          table,
		classifier:     c,
		industryScorer: scoring.NewIndustryScorer(table, c, log),
		healthScorer:   scoring.NewHealthScorer(log),
		qualityGate:    fundamentals.NewQualityGate(fundamentals.DefaultQualityConfig()),
		news:           news,
		benchmarkHash:  hash,
		now:            time.Now,
		logger:         log.Component("analyzer"),
	}, nil
}

// Table returns the benchmark table in use
func (a *Analyzer) Table() *benchmark.Table {
	return a.table
}

// Classifier returns the industry classifier in use
func (a *Analyzer) Classifier() *classifier.Classifier {
	return a.classifier
}

// Analyze fetches the latest statements of a company and scores them.
// A news failure is logged and leaves the report without headlines.
func (a *Analyzer) Analyze(ctx context.Context, sec contracts.Security) (*contracts.AnalysisReport, error) {
	code, err := contracts.ValidateCode(sec.Code)
	if err != nil {
		return nil, err
	}
	sec.Code = code

	if a.source == nil {
		return nil, errors.New("analyzer: no statement source configured")
	}

	start := time.Now()
	log := a.logger.WithSecurity(sec.Code, sec.Name)

	set, err := a.source.FetchStatements(ctx, sec.Code)
	if err != nil {
		return nil, fmt.Errorf("fetch statements %s: %w", sec.Code, err)
	}
	if set == nil || set.Empty() {
		return nil, fmt.Errorf("%s: %w", sec.Code, contracts.ErrStatementsNotFound)
	}
	if sec.Name == "" {
		sec.Name = set.Name
	}

	quality := a.qualityGate.Check(set)
	if !quality.Passed {
		// 점수는 계속 계산, 누락 항목은 최악값 처리
		log.WithFields(map[string]interface{}{
			"missing": quality.Missing,
			"score":   quality.Score,
		}).Warn("Statement coverage below threshold")
	}

	derived := fundamentals.Derive(set)

	report := a.build(sec, derived.Metrics, derived.Dupont)
	report.ReportDate = set.ReportDate()
	report.DataQuality = quality

	if a.news != nil {
		headlines, err := a.news.Headlines(ctx, sec.Name, sec.Code)
		if err != nil {
			log.WithError(err).Warn("News lookup failed")
		} else {
			report.News = headlines
		}
	}

	log.WithFields(map[string]interface{}{
		"industry":    report.Industry.Industry.ID,
		"health":      report.Health.TotalScore,
		"normalized":  report.Industry.NormalizedScore,
		"report_date": report.ReportDate,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Analysis completed")

	return report, nil
}

// Score runs the scoring part of the pipeline on caller-supplied metrics (no I/O)
func (a *Analyzer) Score(sec contracts.Security, metrics contracts.MetricSet) *contracts.AnalysisReport {
	sec.Code = contracts.NormalizeCode(sec.Code)
	return a.build(sec, metrics.Finite(), contracts.Dupont{})
}

func (a *Analyzer) build(sec contracts.Security, metrics contracts.MetricSet, dupont contracts.Dupont) *contracts.AnalysisReport {
	ind := a.classifier.Industry(sec)

	health := a.healthScorer.Score(metrics)
	industry := a.industryScorer.ScoreIndustry(ind, metrics)

	return &contracts.AnalysisReport{
		ID:              uuid.NewString(),
		Security:        sec,
		Metrics:         metrics,
		Dupont:          dupont,
		Health:          health,
		Industry:        industry,
		Recommendations: Recommendations(health, industry, metrics),
		Advice:          Advise(health, ind.ID),
		Narratives:      Narratives(metrics, dupont, ind),
		Assessment:      Assess(health, industry),
		BenchmarkHash:   a.benchmarkHash,
		GeneratedAt:     a.now(),
	}
}
