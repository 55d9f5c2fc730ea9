package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/caiwu/internal/scheduler"
	"github.com/wonny/caiwu/internal/scheduler/jobs"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "관심 종목 정기 분석",
	Long: `관심 종목(WATCHLIST_CODES)을 cron 스케줄로 다시 분석하고
JSON/HTML 리포트를 REPORT_DIR 에 저장합니다.

WATCHLIST_CODES 형식: 600519:贵州茅台,000858,601398:工商银行
WATCHLIST_SCHEDULE: 초 단위 포함 cron (기본 "0 30 18 * * 1-5")

Example:
  go run ./cmd/caiwu watch
  go run ./cmd/caiwu watch --once --codes 600519,000858`,
	RunE: runWatch,
}

var (
	watchOnce  bool
	watchCodes []string
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "한 번 실행 후 종료")
	watchCmd.Flags().StringSliceVar(&watchCodes, "codes", nil, "관심 종목 (default: WATCHLIST_CODES)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	codes := watchCodes
	if len(codes) == 0 {
		codes = a.cfg.Watchlist.Codes
	}
	securities, err := jobs.ParseWatchlist(codes)
	if err != nil {
		return err
	}
	if len(securities) == 0 {
		return fmt.Errorf("watchlist is empty: set WATCHLIST_CODES or --codes")
	}

	job := jobs.NewWatchlistJob(a.analyzer, jobs.WatchlistConfig{
		Securities: securities,
		Schedule:   a.cfg.Watchlist.Schedule,
		Dir:        a.cfg.Report.Dir,
		Theme:      a.cfg.Report.Theme,
	}, a.log)

	sched := scheduler.New(a.log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	if watchOnce {
		result, err := sched.RunJobNow(cmd.Context(), job.Name())
		if err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("watchlist run failed: %s", result.Error)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %d companies analysed in %s → %s\n", len(securities), result.Duration.Round(time.Millisecond), a.cfg.Report.Dir)
		return nil
	}

	sched.Start()
	if next, ok := sched.NextRun(job.Name()); ok {
		fmt.Printf("✅ Watching %d companies, next run %s\n", len(securities), next.Format("2006-01-02 15:04:05"))
	}
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	return nil
}
