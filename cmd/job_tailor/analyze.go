package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/observability"
	"github.com/jonathan/job-tailor/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a job posting against your skills",
	Long: `Fetches a job posting, extracts its keywords, maps them onto your skill catalog and prints
the tailored config that would be generated. With --output the analysis is also written to
analysis/<name>-analysis.json. With --file a saved copy of the page is parsed instead of
fetching the URL.`,
	Example: `  job_tailor analyze https://boards.greenhouse.io/acme/jobs/123
  job_tailor analyze https://jobs.lever.co/acme/abc --output acme-devops
  job_tailor analyze https://example.com/job --file saved-page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeOutput string
	analyzeFile   string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the analysis report as analysis/<name>-analysis.json")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Parse a saved HTML page instead of fetching the URL")

	rootCmd.AddCommand(analyzeCmd)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runAnalyze(cmd *cobra.Command, args []string) error {
	url := args[0]
	out := cmd.OutOrStdout()
	p := app.pipeline(out, nil)

	var (
		analysis *pipeline.Analysis
		err      error
	)
	if analyzeFile != "" {
		html, readErr := os.ReadFile(analyzeFile)
		if readErr != nil {
			return fmt.Errorf("failed to read page file: %w", readErr)
		}
		analysis, err = p.AnalyzeHTML(string(html), url)
	} else {
		fmt.Fprintf(out, "Analyzing job posting: %s\n", url)
		analysis, err = p.Analyze(cmd.Context(), url)
	}
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(out)
	printer.PrintPosting(analysis.Posting)
	printer.PrintSkillAnalysis(analysis.Keywords, analysis.Skills)
	printer.PrintTailoredConfig(analysis.Config)
	printer.PrintRecommendations(analysis.Recommendations)

	if analyzeOutput == "" {
		return nil
	}
	path, err := p.WriteReport(analyzeOutput, p.Report(analysis, nil))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n✅ Analysis saved to: %s\n", path)
	return nil
}
