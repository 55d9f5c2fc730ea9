package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/caiwu/internal/analysis"
	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/internal/report"
)

func TestParseMetricFlags(t *testing.T) {
	got, err := parseMetricFlags([]string{"roe=11.2", " 资产负债率 = 91.5", "current_ratio=1"})
	require.NoError(t, err)
	assert.Equal(t, contracts.MetricSet{"roe": 11.2, "资产负债率": 91.5, "current_ratio": 1}, got)

	_, err = parseMetricFlags([]string{"roe"})
	assert.Error(t, err)

	_, err = parseMetricFlags([]string{"=3"})
	assert.Error(t, err)

	_, err = parseMetricFlags([]string{"roe=high"})
	assert.Error(t, err)

	for _, pair := range []string{"roe=NaN", "debt_ratio=+Inf", "gross_margin=-Inf"} {
		_, err = parseMetricFlags([]string{pair})
		assert.ErrorContains(t, err, "not a finite number", pair)
	}
}

func TestBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", bar(0.5, 10))
	assert.Equal(t, "░░░░░░░░░░", bar(-1, 10))
	assert.Equal(t, "██████████", bar(2, 10))
}

func scoredReport(t *testing.T) *contracts.AnalysisReport {
	t.Helper()
	a, err := analysis.NewAnalyzer(nil, nil, nil, nil)
	require.NoError(t, err)
	return a.Score(contracts.Security{Code: "600519", Name: "贵州茅台"}, contracts.MetricSet{
		"roe":           33,
		"gross_margin":  91.5,
		"debt_ratio":    19,
		"current_ratio": 4.5,
	})
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, scoredReport(t))

	out := buf.String()
	assert.Contains(t, out, "贵州茅台（600519）财务分析报告")
	assert.Contains(t, out, "消费品 (consumer)")
	assert.Contains(t, out, doubleLine)
}

func TestWriteReport(t *testing.T) {
	rep := scoredReport(t)
	dir := t.TempDir()

	run := func(format string) string {
		var buf bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&buf)
		require.NoError(t, writeReport(cmd, rep, format, dir, "dark", report.DeckOptions{}))
		return buf.String()
	}

	assert.Contains(t, run("json"), `"code": "600519"`)
	assert.Contains(t, run("markdown"), "# 贵州茅台（600519）财务分析报告")
	assert.Contains(t, run("html"), "600519_financial_report.html")

	out := run("all")
	assert.Contains(t, out, "600519_贵州茅台.json")
	assert.Contains(t, out, "600519_financial_deck.pdf")

	for _, f := range []string{"600519_贵州茅台.json", "600519_financial_report.html", "600519_financial_deck.pdf"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "score", "classify", "industries", "api", "watch", "check"} {
		assert.True(t, names[want], want)
	}
}

func TestMaskPassword(t *testing.T) {
	masked := maskPassword("postgres://caiwu:secret@db:5432/fin")
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "caiwu:")
	assert.Contains(t, masked, "@db:5432/fin")
	assert.Equal(t, "postgres://db:5432/fin", maskPassword("postgres://db:5432/fin"))
}
