package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/wonny/caiwu/internal/contracts"
)

// Theme is a colour palette for the HTML report
type Theme struct {
	Name       string
	Background string
	Card       string
	Text       string
	Muted      string
	Accent     string
	Good       string
	Bad        string
	Warn       string
	Border     string
}

// Themes holds the built-in palettes
var Themes = map[string]Theme{
	"dark": {
		Name: "dark", Background: "#1a2332", Card: "#2d3f52", Text: "#ffffff", Muted: "#a0aec0",
		Accent: "#4a9eff", Good: "#2ecc71", Bad: "#e74c3c", Warn: "#f39c12", Border: "#3d5166",
	},
	"medium": {
		Name: "medium", Background: "#f0f2f5", Card: "#ffffff", Text: "#2c3e50", Muted: "#7f8c8d",
		Accent: "#2f80ed", Good: "#27ae60", Bad: "#c0392b", Warn: "#e67e22", Border: "#dfe4ea",
	},
	"light": {
		Name: "light", Background: "#ffffff", Card: "#fafafa", Text: "#222222", Muted: "#666666",
		Accent: "#1a73e8", Good: "#188038", Bad: "#d93025", Warn: "#e37400", Border: "#e0e0e0",
	},
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { margin: 0; padding: 32px; background: {{.Theme.Background}}; color: {{.Theme.Text}};
  font-family: "PingFang SC", "Microsoft YaHei", "Noto Sans CJK SC", sans-serif; line-height: 1.6; }
main { max-width: 1080px; margin: 0 auto; }
h1, h2, h3 { color: {{.Theme.Accent}}; }
a { color: {{.Theme.Accent}}; }
blockquote { margin: 0; padding: 8px 16px; border-left: 4px solid {{.Theme.Accent}}; color: {{.Theme.Muted}}; }
table { width: 100%; border-collapse: collapse; margin: 16px 0; background: {{.Theme.Card}}; }
th, td { padding: 8px 12px; border: 1px solid {{.Theme.Border}}; }
th { background: {{.Theme.Accent}}; color: #ffffff; }
.scores { display: flex; gap: 16px; margin: 24px 0; }
.score-card { flex: 1; padding: 20px; border-radius: 8px; background: {{.Theme.Card}}; border: 1px solid {{.Theme.Border}}; }
.score-card .label { color: {{.Theme.Muted}}; font-size: 14px; }
.score-card .value { font-size: 40px; font-weight: bold; }
.score-card .risk { font-size: 14px; }
.good { color: {{.Theme.Good}}; }
.warn { color: {{.Theme.Warn}}; }
.bad { color: {{.Theme.Bad}}; }
footer { margin-top: 32px; color: {{.Theme.Muted}}; font-size: 12px; }
</style>
</head>
<body class="theme-{{.Theme.Name}}">
<main>
<div class="scores">
{{range .Cards}}<div class="score-card {{.Class}}">
<div class="label">{{.Label}}</div>
<div class="value">{{.Value}}</div>
<div class="risk">{{.Risk}}</div>
</div>
{{end}}</div>
{{.Body}}
<footer>报告编号 {{.ID}} · 基准版本 {{.BenchmarkHash}}</footer>
</main>
</body>
</html>
`))

type scoreCard struct {
	Label string
	Value string
	Risk  string
	Class string
}

type pageData struct {
	Title         string
	Theme         Theme
	Cards         []scoreCard
	Body          template.HTML
	ID            string
	BenchmarkHash string
}

// HTML renders the report as a standalone themed page.
// The body is the markdown report converted with goldmark.
func HTML(r *contracts.AnalysisReport, theme string) ([]byte, error) {
	t, ok := Themes[theme]
	if !ok {
		return nil, fmt.Errorf("unknown report theme %q", theme)
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	data := pageData{
		Title: Title(r),
		Theme: t,
		Cards: []scoreCard{
			{
				Label: "基础健康评分",
				Value: number(r.Health.TotalScore),
				Risk:  r.Health.RiskLabel,
				Class: scoreClass(r.Health.TotalScore),
			},
			{
				Label: r.Industry.Industry.Name + "行业调整评分",
				Value: number(r.Industry.NormalizedScore),
				Risk:  r.Industry.RiskLabel,
				Class: scoreClass(r.Industry.NormalizedScore),
			},
		},
		// goldmark 출력은 원본 HTML을 통과시키지 않음
		Body:          template.HTML(body.String()),
		ID:            r.ID,
		BenchmarkHash: r.BenchmarkHash,
	}

	var out bytes.Buffer
	if err := page.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return out.Bytes(), nil
}

func scoreClass(score float64) string {
	switch {
	case score >= 60:
		return "good"
	case score >= 40:
		return "warn"
	default:
		return "bad"
	}
}
