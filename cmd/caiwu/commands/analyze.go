package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/internal/report"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <code>",
	Short: "재무제표 조회 후 건전성 분석",
	Long: `최신 재무제표(利润表/资产负债表/现金流量表)를 조회해 분석합니다.

이 명령어는:
- 재무제표 조회 (eastmoney, postgres, file)
- 파생 지표 계산 및 업종 분류
- 기본 건전성 점수 + 업종 조정 점수
- 텍스트/JSON/Markdown/HTML/PDF 리포트 출력

Formats:
  text      터미널 요약 (기본값)
  json      전체 결과 JSON
  markdown  서술형 리포트
  html      HTML 리포트 파일 저장
  deck      PDF 슬라이드 파일 저장
  all       요약 출력 + JSON/HTML/PDF 저장

Example:
  go run ./cmd/caiwu analyze 600519
  go run ./cmd/caiwu analyze 601398 --sector 银行 --format json
  go run ./cmd/caiwu analyze 600519 --source file --input testdata --format all`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeName    string
	analyzeSector  string
	analyzeSource  string
	analyzeInput   string
	analyzeFormat  string
	analyzeOut     string
	analyzeTheme   string
	analyzeFont    string
	analyzeNews    bool
	analyzeTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "회사명 (분류 보조)")
	analyzeCmd.Flags().StringVar(&analyzeSector, "sector", "", "申万一级 업종명")
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "", "statement source: eastmoney|postgres|file")
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "file source: directory of {code}.json or a single file")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "text|json|markdown|html|deck|all")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "리포트 저장 디렉터리 (default: REPORT_DIR)")
	analyzeCmd.Flags().StringVar(&analyzeTheme, "theme", "", "HTML theme: dark|medium|light (default: REPORT_THEME)")
	analyzeCmd.Flags().StringVar(&analyzeFont, "font", "", "PDF 중문 폰트 TTF (default: REPORT_FONT_PATH)")
	analyzeCmd.Flags().BoolVar(&analyzeNews, "news", true, "관련 뉴스 포함 (NEWS_FEED_URL 필요)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "전체 분석 제한 시간")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	switch analyzeFormat {
	case "text", "json", "markdown", "html", "deck", "all":
	default:
		return fmt.Errorf("unknown format %q", analyzeFormat)
	}

	a, err := newApp(appOptions{
		source: analyzeSource,
		input:  analyzeInput,
		news:   analyzeNews,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	rep, err := a.analyzer.Analyze(ctx, contracts.Security{
		Code:      args[0],
		Name:      analyzeName,
		SectorTag: analyzeSector,
	})
	if err != nil {
		return err
	}

	out := analyzeOut
	if out == "" {
		out = a.cfg.Report.Dir
	}
	theme := analyzeTheme
	if theme == "" {
		theme = a.cfg.Report.Theme
	}
	deck := report.DeckOptions{FontPath: analyzeFont}
	if deck.FontPath == "" {
		deck.FontPath = a.cfg.Report.FontPath
	}

	return writeReport(cmd, rep, analyzeFormat, out, theme, deck)
}

// writeReport prints or saves rep in the requested format
func writeReport(cmd *cobra.Command, rep *contracts.AnalysisReport, format, out, theme string, deck report.DeckOptions) error {
	w := cmd.OutOrStdout()

	switch format {
	case "json":
		return printJSON(w, rep)
	case "markdown":
		_, err := fmt.Fprint(w, report.Markdown(rep))
		return err
	case "html":
		path, err := report.SaveHTML(out, rep, theme)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "✅ HTML report: %s\n", path)
		return nil
	case "deck":
		path, err := report.SaveDeck(out, rep, deck)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "✅ PDF deck: %s\n", path)
		return nil
	case "all":
		printReport(w, rep)
		jsonPath, err := report.SaveJSON(out, rep)
		if err != nil {
			return err
		}
		htmlPath, err := report.SaveHTML(out, rep, theme)
		if err != nil {
			return err
		}
		deckPath, err := report.SaveDeck(out, rep, deck)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n✅ Saved:\n  %s\n  %s\n  %s\n", jsonPath, htmlPath, deckPath)
		return nil
	default:
		printReport(w, rep)
		return nil
	}
}
