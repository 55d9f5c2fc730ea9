package commands

import (
	"fmt"
	"time"

	"github.com/wonny/caiwu/internal/analysis"
	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/internal/external/eastmoney"
	"github.com/wonny/caiwu/internal/external/news"
	"github.com/wonny/caiwu/internal/s0_data"
	"github.com/wonny/caiwu/pkg/config"
	"github.com/wonny/caiwu/pkg/database"
	"github.com/wonny/caiwu/pkg/httputil"
	"github.com/wonny/caiwu/pkg/logger"
	"github.com/wonny/caiwu/pkg/redis"
)

// appOptions selects which parts of the pipeline a command needs
type appOptions struct {
	source string // overrides STATEMENT_SOURCE when set
	input  string // file source path
	noData bool   // scoring only: no statement source, no news
	news   bool
}

// app holds the wired dependencies of one command run
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	table    *benchmark.Table
	analyzer *analysis.Analyzer
	closers  []func()
}

// Close releases connections in reverse order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp loads config and wires the analyzer
// ⭐ SSOT: 의존성 조립은 여기서만
func newApp(opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if benchmarkFile != "" {
		cfg.BenchmarkFile = benchmarkFile
	}
	if opts.source != "" {
		cfg.StatementSource = opts.source
	}

	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	a.table, err = benchmark.Load(cfg.BenchmarkFile)
	if err != nil {
		return nil, err
	}
	for _, w := range benchmark.Warn(a.table) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	var (
		source contracts.StatementSource
		np     analysis.NewsProvider
	)
	if !opts.noData {
		cache, limiter := a.redis()

		source, err = a.source(opts.input, cache, limiter)
		if err != nil {
			a.Close()
			return nil, err
		}

		if opts.news && cfg.News.FeedURL != "" {
			httpClient := httputil.New(log).WithRetry(2, time.Second)
			np = news.NewClient(cfg.News, httpClient, cache, log)
		}
	}

	a.analyzer, err = analysis.NewAnalyzer(source, a.table, np, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// redis connects the optional cache; failures fall back to no caching
func (a *app) redis() (*redis.Cache, *redis.RateLimiter) {
	client, err := redis.New(a.cfg)
	if err != nil {
		a.log.WithError(err).Warn("Redis unavailable, continuing without cache")
		client = redis.Disabled()
	}
	a.closers = append(a.closers, func() { client.Close() })

	if !client.Enabled() {
		return nil, nil
	}
	return redis.NewCache(client, "caiwu"), redis.NewRateLimiter(client, "caiwu")
}

func (a *app) source(input string, cache *redis.Cache, limiter *redis.RateLimiter) (contracts.StatementSource, error) {
	switch a.cfg.StatementSource {
	case config.SourceEastmoney:
		return eastmoney.NewClient(a.cfg.Eastmoney, cache, limiter, a.log), nil

	case config.SourcePostgres:
		if a.cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required with the postgres source")
		}
		db, err := database.New(a.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return s0_data.NewStatementRepository(db.Pool, a.log), nil

	case config.SourceFile:
		if input == "" {
			return nil, fmt.Errorf("--input is required with the file source")
		}
		return s0_data.NewFileSource(input), nil

	default:
		return nil, fmt.Errorf("unknown statement source %q", a.cfg.StatementSource)
	}
}
