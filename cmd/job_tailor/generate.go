package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate <config> <output>",
	Short: "Render a resume from a role config",
	Long: `Renders base/resume-template.md with a role config and writes versions/<output>.md.
The config may be a path, a file name or a bare name under configs/role-templates.`,
	Example: `  job_tailor generate devops-engineer acme-devops --company "Acme Corp"
  job_tailor generate configs/role-templates/cloud-architect.yaml architect`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

var coverCmd = &cobra.Command{
	Use:   "cover <config> <output>",
	Short: "Render a cover letter from a cover letter config",
	Long: `Renders base/cover-letter-template.md with a cover letter config and writes
versions/<output>-cover-letter.md. The config may be a path, a file name or a bare name under
configs/cover-letter-templates. --company defaults to the company in the config.`,
	Example: `  job_tailor cover acme-devops acme-devops`,
	Args:    cobra.ExactArgs(2),
	RunE:    runCover,
}

var (
	generateCompany string
	coverCompany    string
)

func init() {
	generateCmd.Flags().StringVarP(&generateCompany, "company", "c", "", "Company name shown in the document")
	coverCmd.Flags().StringVarP(&coverCompany, "company", "c", "", "Company name shown in the letter (default from config)")

	rootCmd.AddCommand(generateCmd, coverCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	result, err := app.pipeline(cmd.OutOrStdout(), nil).GenerateResume(args[0], args[1], generateCompany)
	if err != nil {
		return err
	}
	printGenerated(cmd.OutOrStdout(), "Resume", result)
	return nil
}

func runCover(cmd *cobra.Command, args []string) error {
	result, err := app.pipeline(cmd.OutOrStdout(), nil).GenerateCover(args[0], args[1], coverCompany)
	if err != nil {
		return err
	}
	printGenerated(cmd.OutOrStdout(), "Cover letter", result)
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func printGenerated(out io.Writer, what string, result *pipeline.GenerateResult) {
	fmt.Fprintf(out, "✅ %s generated: %s (%d bytes)\n", what, result.OutputPath, result.Size)
	fmt.Fprintf(out, "   Config:   %s\n", result.ConfigPath)
	fmt.Fprintf(out, "   Role:     %s\n", result.Role)
	if result.Focus != "" {
		fmt.Fprintf(out, "   Focus:    %s\n", result.Focus)
	}
	if result.Location != "" {
		fmt.Fprintf(out, "   Location: %s\n", result.Location)
	}
	if result.Company != "" {
		fmt.Fprintf(out, "   Company:  %s\n", result.Company)
	}
}
