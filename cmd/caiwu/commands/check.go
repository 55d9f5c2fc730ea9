package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/pkg/config"
	"github.com/wonny/caiwu/pkg/database"
	"github.com/wonny/caiwu/pkg/redis"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "설정 및 연결 점검",
	Long: `설정, 벤치마크 테이블, PostgreSQL, Redis 연결을 점검합니다.

DATABASE_URL 이 없거나 REDIS_ENABLED=false 이면 해당 항목은 건너뜁니다.

Example:
  go run ./cmd/caiwu check
  go run ./cmd/caiwu check --benchmark benchmarks.yaml`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "=== caiwu check ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ load config: %w", err)
	}
	if benchmarkFile != "" {
		cfg.BenchmarkFile = benchmarkFile
	}
	fmt.Fprintf(w, "✅ Config loaded (ENV: %s, source: %s)\n", cfg.Env, cfg.StatementSource)

	table, err := benchmark.Load(cfg.BenchmarkFile)
	if err != nil {
		return fmt.Errorf("❌ load benchmark: %w", err)
	}
	hash, err := benchmark.Hash(table)
	if err != nil {
		return fmt.Errorf("❌ hash benchmark: %w", err)
	}
	fmt.Fprintf(w, "✅ Benchmark %s: %d industries\n", hash, len(table.IDs()))
	for _, warn := range benchmark.Warn(table) {
		fmt.Fprintf(w, "   ⚠ %s\n", warn.Message)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	if cfg.Database.URL == "" {
		fmt.Fprintln(w, "-  Database: skipped (DATABASE_URL not set)")
	} else if err := checkDatabase(ctx, cmd, cfg); err != nil {
		return err
	}

	if !cfg.Redis.Enabled {
		fmt.Fprintln(w, "-  Redis: skipped (REDIS_ENABLED=false)")
	} else {
		client, err := redis.New(cfg)
		if err != nil {
			return fmt.Errorf("❌ redis: %w", err)
		}
		defer client.Close()
		fmt.Fprintf(w, "✅ Redis %s:%s reachable\n", cfg.Redis.Host, cfg.Redis.Port)
	}

	fmt.Fprintln(w, "\n✅ All checks passed")
	return nil
}

func checkDatabase(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "   Database URL: %s\n", maskPassword(cfg.Database.URL))

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ connect to database: %w", err)
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ database health check: %w", err)
	}

	fmt.Fprintf(w, "✅ Database healthy (%v)\n", status.ResponseTime)
	fmt.Fprintf(w, "   Pool: %d/%d conns, %d idle\n", status.Stats.TotalConns, status.Stats.MaxConns, status.Stats.IdleConns)
	return nil
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
