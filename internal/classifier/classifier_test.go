package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/contracts"
)

func newTestClassifier() *Classifier {
	return New(benchmark.Default(), nil)
}

func TestClassify(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name   string
		code   string
		cname  string
		sector string
		want   string
	}{
		{"star market", "688981", "中芯国际", "", "technology"},
		{"chinext", "300750", "", "", "technology"},
		{"beijing 8", "830799", "", "", "manufacturing"},
		{"beijing 4", "430047", "", "", "manufacturing"},
		{"example before pattern", "601668", "中国建筑", "", "construction"},
		{"consumer example", "600519", "贵州茅台", "", "consumer"},
		{"finance example", "000001", "平安银行", "", "finance"},
		{"real estate example", "000002", "万科A", "", "real_estate"},
		{"manufacturing example", "600031", "三一重工", "", "manufacturing"},
		{"technology example 002", "002415", "", "", "technology"},
		{"finance pattern 601", "601999", "", "", "finance"},
		{"finance pattern 60", "600999", "", "", "finance"},
		{"finance pattern 002", "002999", "", "", "finance"},
		{"zero padded", "2415", "", "", "technology"},
		{"trimmed", " 600519 ", "", "", "consumer"},
		{"name keyword", "999999", "某白酒股份", "", "consumer"},
		{"name prefix bonus", "999999", "电力设备公司", "", "energy"},
		{"name tie goes to table order", "999999", "某环保通信", "", "utilities"},
		{"sector wins", "999999", "中国软件", "银行", "finance"},
		{"sector mapped to default falls through", "999999", "中国软件", "汽车", "technology"},
		{"unknown sector falls through", "601668", "", "不存在", "construction"},
		{"sector beats code", "600519", "", "建筑装饰", "construction"},
		{"default", "999999", "", "", "manufacturing"},
		{"no keyword hit", "999999", "某某股份", "", "manufacturing"},
		{"empty code", "", "", "", "manufacturing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.code, tt.cname, tt.sector))
		})
	}
}

func TestClassify_NameIsCaseInsensitive(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, "telecom", c.Classify("999999", "5g网络科技", ""))
}

func TestIndustry(t *testing.T) {
	c := newTestClassifier()

	ind := c.Industry(contracts.Security{Code: "600519", Name: "贵州茅台"})
	require.NotNil(t, ind)
	assert.Equal(t, "consumer", ind.ID)
	assert.Equal(t, "消费品", ind.Name)
}

func TestMatches(t *testing.T) {
	c := newTestClassifier()

	t.Run("sector and star market code", func(t *testing.T) {
		matches := c.Matches("688981", "中芯国际", "电子")
		require.Len(t, matches, 2)

		assert.Equal(t, Match{Industry: "technology", Name: "高科技", Confidence: 1.0, Source: "申万行业: 电子"}, matches[0])
		assert.Equal(t, Match{Industry: "technology", Name: "高科技", Confidence: 0.8, Source: "股票代码模式"}, matches[1])
	})

	t.Run("all three sources", func(t *testing.T) {
		matches := c.Matches("000001", "平安银行", "银行")
		require.Len(t, matches, 3)

		assert.Equal(t, 1.0, matches[0].Confidence)
		assert.Equal(t, 0.6, matches[1].Confidence)
		assert.Equal(t, "finance", matches[2].Industry)
		assert.InDelta(t, 1.0/7*0.5, matches[2].Confidence, 1e-9)
		assert.Equal(t, "公司名称关键词: 平安银行", matches[2].Source)
	})

	t.Run("name matches sorted, ties keep table order", func(t *testing.T) {
		matches := c.Matches("999999", "通信环保", "")
		require.Len(t, matches, 2)
		assert.Equal(t, "telecom", matches[0].Industry)
		assert.InDelta(t, 3.0/7*0.5, matches[0].Confidence, 1e-9)
		assert.Equal(t, "utilities", matches[1].Industry)

		matches = c.Matches("999999", "某环保通信", "")
		require.Len(t, matches, 2)
		assert.Equal(t, "utilities", matches[0].Industry)
		assert.Equal(t, "telecom", matches[1].Industry)
	})

	t.Run("unknown sector tag reports the default industry", func(t *testing.T) {
		matches := c.Matches("999999", "", "不存在")
		require.Len(t, matches, 1)
		assert.Equal(t, Match{Industry: "manufacturing", Name: "制造业", Confidence: 1.0, Source: "申万行业: 不存在"}, matches[0])
	})

	t.Run("sector mapped to default is still reported", func(t *testing.T) {
		matches := c.Matches("999999", "", "汽车")
		require.Len(t, matches, 1)
		assert.Equal(t, "manufacturing", matches[0].Industry)
	})
}
