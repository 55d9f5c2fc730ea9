package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/caiwu/internal/contracts"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify [code]",
	Short: "업종 분류",
	Long: `종목을 벤치마크 업종 중 하나로 분류합니다.

우선순위: 申万 업종 → 종목 코드 → 회사명 키워드 → 기본 업종(manufacturing)

Example:
  go run ./cmd/caiwu classify 600519
  go run ./cmd/caiwu classify --name 招商银行 --matches`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

var (
	classifyName    string
	classifySector  string
	classifyMatches bool
)

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyName, "name", "", "회사명")
	classifyCmd.Flags().StringVar(&classifySector, "sector", "", "申万一级 업종명")
	classifyCmd.Flags().BoolVar(&classifyMatches, "matches", false, "모든 후보와 신뢰도 출력")
}

func runClassify(cmd *cobra.Command, args []string) error {
	var code string
	if len(args) == 1 {
		code = contracts.NormalizeCode(args[0])
	}
	if code == "" && classifyName == "" && classifySector == "" {
		return fmt.Errorf("a code, --name or --sector is required")
	}

	a, err := newApp(appOptions{noData: true})
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.analyzer.Classifier()
	ind := c.Industry(contracts.Security{Code: code, Name: classifyName, SectorTag: classifySector})

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s\t%s (%s)\n", ind.ID, ind.Name, ind.NameEN)

	if classifyMatches {
		fmt.Fprintln(w, singleLine)
		for _, m := range c.Matches(code, classifyName, classifySector) {
			fmt.Fprintf(w, "  %-14s %-6s %.2f  %s\n", m.Industry, m.Name, m.Confidence, m.Source)
		}
	}
	return nil
}
