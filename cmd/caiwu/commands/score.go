package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/internal/report"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "지표를 직접 입력해 점수 계산",
	Long: `이미 계산된 지표로 기본/업종 조정 점수를 계산합니다 (데이터 조회 없음).

지표는 --metric key=value 로 반복 입력하거나, 없으면 stdin 의 JSON 객체로 읽습니다.
키는 표준 이름(roe, debt_ratio ...) 또는 중문 별칭(毛利率, 资产负债率 ...)을 사용합니다.

Example:
  go run ./cmd/caiwu score --code 601398 --metric roe=11.2 --metric debt_ratio=91.5
  echo '{"gross_margin":91.5,"roe":33}' | go run ./cmd/caiwu score --code 600519 -f json`,
	RunE: runScore,
}

var (
	scoreCode    string
	scoreName    string
	scoreSector  string
	scoreMetrics []string
	scoreFormat  string
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreCode, "code", "", "6자리 종목 코드")
	scoreCmd.Flags().StringVar(&scoreName, "name", "", "회사명")
	scoreCmd.Flags().StringVar(&scoreSector, "sector", "", "申万一级 업종명")
	scoreCmd.Flags().StringArrayVarP(&scoreMetrics, "metric", "m", nil, "key=value (반복 가능)")
	scoreCmd.Flags().StringVarP(&scoreFormat, "format", "f", "text", "text|json|markdown")
}

func runScore(cmd *cobra.Command, args []string) error {
	if scoreCode == "" && scoreName == "" && scoreSector == "" {
		return fmt.Errorf("one of --code, --name or --sector is required")
	}

	var (
		metrics contracts.MetricSet
		err     error
	)
	if len(scoreMetrics) > 0 {
		metrics, err = parseMetricFlags(scoreMetrics)
	} else {
		err = json.NewDecoder(cmd.InOrStdin()).Decode(&metrics)
	}
	if err != nil {
		return fmt.Errorf("read metrics: %w", err)
	}

	a, err := newApp(appOptions{noData: true})
	if err != nil {
		return err
	}
	defer a.Close()

	rep := a.analyzer.Score(contracts.Security{
		Code:      scoreCode,
		Name:      scoreName,
		SectorTag: scoreSector,
	}, metrics)

	w := cmd.OutOrStdout()
	switch scoreFormat {
	case "json":
		return printJSON(w, rep)
	case "markdown":
		_, err := fmt.Fprint(w, report.Markdown(rep))
		return err
	default:
		printReport(w, rep)
		return nil
	}
}

// parseMetricFlags parses repeated key=value pairs
func parseMetricFlags(pairs []string) (contracts.MetricSet, error) {
	metrics := contracts.MetricSet{}
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("metric %q: want key=value", p)
		}
		v, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", key, err)
		}
		if !contracts.Finite(v) {
			return nil, fmt.Errorf("metric %q: %q is not a finite number", key, raw)
		}
		metrics[key] = v
	}
	return metrics, nil
}
