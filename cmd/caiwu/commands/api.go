package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/caiwu/internal/api"
	"github.com/wonny/caiwu/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                        - Health check
  GET  /api/industries                - 업종 목록
  GET  /api/industries/{id}           - 업종 벤치마크
  GET  /api/classify?code=&name=      - 업종 분류
  GET  /api/analysis/{code}           - 재무 분석 (JSON)
  GET  /api/analysis/{code}/report    - 재무 분석 리포트 (HTML/Markdown)
  POST /api/score                     - 지표 직접 점수 계산

Example:
  go run ./cmd/caiwu api
  go run ./cmd/caiwu api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== caiwu API Server ===")

	// 1. Wire config, logger, statement source, news and analyzer
	a, err := newApp(appOptions{news: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	a.log.WithFields(map[string]interface{}{
		"port":   a.cfg.Port,
		"env":    a.cfg.Env,
		"source": a.cfg.StatementSource,
	}).Info("Initializing API server")

	// 2. Handlers and router
	industryHandler := handlers.NewIndustryHandler(a.table, a.analyzer.Classifier(), a.log)
	analysisHandler := handlers.NewAnalysisHandler(a.analyzer, a.cfg.Report.Theme, a.log)
	router := api.NewRouter(industryHandler, analysisHandler, a.log)

	// 3. Serve until Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	return api.New(a.cfg, a.log, router).Run(ctx)
}
