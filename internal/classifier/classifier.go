package classifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/pkg/logger"
)

// Match is one candidate industry with its confidence and evidence
type Match struct {
	Industry   string  `json:"industry"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// Classifier assigns a security to one of the benchmark industries
// ⭐ SSOT: 업종 분류 (申万 → 코드 → 회사명 → 기본값)
type Classifier struct {
	table  *benchmark.Table
	logger *logger.Logger
}

// New creates a classifier over a benchmark table
func New(table *benchmark.Table, log *logger.Logger) *Classifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Classifier{
		table:  table,
		logger: log.Component("classifier"),
	}
}

// Classify returns the industry id of a security. It never fails: unknown inputs
// fall back to the table's default industry.
func (c *Classifier) Classify(code, name, sectorTag string) string {
	id, via := c.classify(code, name, sectorTag)

	c.logger.WithFields(map[string]interface{}{
		"code":     code,
		"name":     name,
		"sector":   sectorTag,
		"industry": id,
		"via":      via,
	}).Debug("Industry classified")

	return id
}

// Industry is Classify returning the benchmark industry itself
func (c *Classifier) Industry(sec contracts.Security) *benchmark.Industry {
	return c.table.IndustryOrDefault(c.Classify(sec.Code, sec.Name, sec.SectorTag))
}

func (c *Classifier) classify(code, name, sectorTag string) (string, string) {
	// 1. 申万 업종 (기본 업종으로 매핑되면 다음 단계로)
	if sectorTag != "" {
		if id, ok := c.table.SectorIndustry(sectorTag); ok && id != c.table.DefaultIndustry {
			return id, "sector"
		}
	}

	// 2. 종목 코드
	if id, ok := c.byCode(code); ok {
		return id, "code"
	}

	// 3. 회사명 키워드 (동점이면 테이블 선언 순서 우선)
	if name != "" {
		best, bestScore := "", 0.0
		for _, s := range c.byName(name) {
			if s.score > bestScore {
				best, bestScore = s.id, s.score
			}
		}
		if best != "" {
			return best, "name"
		}
	}

	return c.table.DefaultIndustry, "default"
}

// byCode applies board prefixes, then exact examples, then code patterns
func (c *Classifier) byCode(code string) (string, bool) {
	code = contracts.NormalizeCode(code)

	switch {
	case strings.HasPrefix(code, "688"): // 科创板
		return "technology", true
	case strings.HasPrefix(code, "300"): // 创业板
		return "technology", true
	case strings.HasPrefix(code, "8"), strings.HasPrefix(code, "4"): // 北交所
		return "manufacturing", true
	}

	for _, ind := range c.table.Industries {
		for _, example := range ind.CodeExamples {
			if code == example {
				return ind.ID, true
			}
		}
	}

	for _, ind := range c.table.Industries {
		for _, pattern := range ind.CodePatterns {
			if strings.HasPrefix(code, pattern) {
				return ind.ID, true
			}
		}
	}

	return "", false
}

type nameScore struct {
	id    string
	score float64
}

// byName scores every industry by keyword hits in the company name, in table order.
// Only positive scores are returned.
func (c *Classifier) byName(name string) []nameScore {
	name = strings.ToLower(name)

	var scores []nameScore
	for _, ind := range c.table.Industries {
		if len(ind.Keywords) == 0 {
			continue
		}

		hits := 0
		for _, kw := range ind.Keywords {
			kw = strings.ToLower(kw)
			if strings.Contains(name, kw) {
				hits++
			}
			// 완전 일치 / 접두 일치 가산점
			if name == kw || strings.HasPrefix(name, kw) {
				hits += 2
			}
		}

		if hits > 0 {
			scores = append(scores, nameScore{
				id:    ind.ID,
				score: float64(hits) / float64(len(ind.Keywords)),
			})
		}
	}
	return scores
}

// Matches lists every industry signal for diagnostics: sector tag (1.0, an
// unmapped tag reports the default industry), code (0.8 for 科创板, else 0.6),
// then each name match at half its keyword score, strongest first.
func (c *Classifier) Matches(code, name, sectorTag string) []Match {
	var matches []Match

	// 매핑 없는 申万 업종은 기본 업종으로 보고
	if sectorTag != "" {
		id, ok := c.table.SectorIndustry(sectorTag)
		if !ok {
			id = c.table.DefaultIndustry
		}
		matches = append(matches, c.match(id, 1.0, fmt.Sprintf("申万行业: %s", sectorTag)))
	}

	if id, ok := c.byCode(code); ok {
		confidence := 0.6
		if strings.HasPrefix(contracts.NormalizeCode(code), "688") {
			confidence = 0.8
		}
		matches = append(matches, c.match(id, confidence, "股票代码模式"))
	}

	if name != "" {
		scores := c.byName(name)
		sort.SliceStable(scores, func(i, j int) bool {
			return scores[i].score > scores[j].score
		})
		for _, s := range scores {
			matches = append(matches, c.match(s.id, s.score*0.5, fmt.Sprintf("公司名称关键词: %s", name)))
		}
	}

	return matches
}

func (c *Classifier) match(id string, confidence float64, source string) Match {
	m := Match{Industry: id, Confidence: confidence, Source: source}
	if ind, ok := c.table.Industry(id); ok {
		m.Name = ind.Name
	}
	return m
}
