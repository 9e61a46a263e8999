package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/optimapped/optimapped/internal/persistence"
	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/scoring"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the latest focus assessment results",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		u, err := e.user()
		if err != nil {
			return err
		}
		rep := persistence.New(e.docs, e.local, e.log).Read(cmd.Context(), u.UID)
		if rep == nil {
			fmt.Println("No assessment results yet.")
			return nil
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		printReport(rep)
		return nil
	},
}

func printReport(rep *scoring.Report) {
	sep := strings.Repeat("─", 48)
	fmt.Printf("Focus score:  %d%%  %s\n", rep.FocusScore, scoring.BandMessage(rep.FocusScore))
	fmt.Printf("Peak hours:   %s\n", rep.PeakFocusHours)
	fmt.Printf("Completed:    %s\n", rep.CompletedAt.Local().Format("2006-01-02 15:04"))
	fmt.Println(sep)
	for _, c := range questionbank.AllCategories() {
		score := rep.CategoryScore(c)
		fmt.Printf("%-22s  %3d%%  %s\n", c.Label(), score, strings.Repeat("█", score/5))
	}
	fmt.Println(sep)
	fmt.Println("Strengths:   ", strings.Join(labels(rep.Strengths), ", "))
	if len(rep.Improvements) > 0 {
		fmt.Println("Improve:     ", strings.Join(labels(rep.Improvements), ", "))
	}
}

func labels(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if c, ok := questionbank.ParseCategory(id); ok {
			out[i] = c.Label()
		} else {
			out[i] = id
		}
	}
	return out
}

func init() {
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}
