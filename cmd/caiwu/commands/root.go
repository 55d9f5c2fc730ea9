package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	benchmarkFile string
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "caiwu",
	Short: "A股 财务健康 분석기 (업종 조정 점수)",
	Long: `caiwu - industry-aware financial health scoring for China A-shares

재무제표 → 파생 지표 → 업종 분류 → 기본/업종 조정 점수 → 리포트

Usage:
  go run ./cmd/caiwu [command]

Examples:
  go run ./cmd/caiwu analyze 600519
  go run ./cmd/caiwu analyze 600519 --format all --out reports
  go run ./cmd/caiwu score --code 601398 --metric roe=11.2 --metric debt_ratio=91.5
  go run ./cmd/caiwu classify 300750 --name 宁德时代 --matches
  go run ./cmd/caiwu industries
  go run ./cmd/caiwu api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&benchmarkFile, "benchmark", "", "benchmark YAML (default: BENCHMARK_FILE or embedded table)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
