package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/caiwu/internal/contracts"
)

// industriesCmd represents the industries command
var industriesCmd = &cobra.Command{
	Use:   "industries [id]",
	Short: "업종 벤치마크 조회",
	Long: `벤치마크 테이블의 업종 목록 또는 한 업종의 지표 기준을 출력합니다.

Example:
  go run ./cmd/caiwu industries
  go run ./cmd/caiwu industries finance
  go run ./cmd/caiwu industries --benchmark my_industries.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndustries,
}

func init() {
	rootCmd.AddCommand(industriesCmd)
}

func runIndustries(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{noData: true})
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()

	if len(args) == 0 {
		printHeader(w, fmt.Sprintf("Industries (%d)", len(a.table.Industries)))
		for _, ind := range a.table.Industries {
			marker := " "
			if ind.ID == a.table.DefaultIndustry {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %-14s %-6s %-16s %d metrics\n", marker, ind.ID, ind.Name, ind.NameEN, len(ind.Metrics))
		}
		fmt.Fprintln(w, doubleLine)
		return nil
	}

	ind, ok := a.table.Industry(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", contracts.ErrUnknownIndustry, args[0])
	}

	printHeader(w, fmt.Sprintf("%s %s (%s)", ind.ID, ind.Name, ind.NameEN))
	fmt.Fprintf(w, "  %s\n", ind.Description)
	fmt.Fprintln(w, singleLine)
	fmt.Fprintf(w, "  %-16s %12s %8s %7s  %s\n", "metric", "range", "ideal", "weight", "direction")
	for _, mb := range ind.Metrics {
		dir := "↓"
		if mb.HigherIsBetter() {
			dir = "↑"
		}
		fmt.Fprintf(w, "  %-16s %12s %8.2f %7.2f  %s\n", mb.Metric, mb.Range(), mb.Ideal, mb.Weight, dir)
	}

	if len(ind.SpecialRules) > 0 {
		fmt.Fprintln(w, singleLine)
		for _, r := range ind.SpecialRules {
			state := "off"
			switch {
			case r.Text != "":
				state = r.Text
			case r.Enabled():
				state = "on"
			}
			fmt.Fprintf(w, "  %-24s %-8s %s\n", r.Name, state, r.Name.Label())
		}
	}

	if len(ind.Keywords) > 0 {
		fmt.Fprintln(w, singleLine)
		fmt.Fprintf(w, "  keywords: %s\n", strings.Join(ind.Keywords, ", "))
	}
	fmt.Fprintln(w, doubleLine)
	return nil
}
