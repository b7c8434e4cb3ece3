package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/pipeline"
	"github.com/jonathan/job-tailor/internal/rewriting"
)

var smartCmd = &cobra.Command{
	Use:   "smart <url> <output>",
	Short: "Analyze a posting and generate tailored documents in one go",
	Long: `Fetches a job posting, synthesizes a tailored role config from the matching base template
and renders the resume and/or cover letter. The tailored configs are saved under configs/ so the
documents can be regenerated with generate and cover. The output name must not be the name of a
base role template.

If the posting cannot be fetched the run continues with "Unknown" posting fields. With
--enhance the summary, highlights and cover letter paragraphs are rewritten by Gemini when an
API key is available; otherwise the original text is kept.`,
	Example: `  job_tailor smart https://boards.greenhouse.io/acme/jobs/123 acme-devops
  job_tailor smart https://jobs.lever.co/acme/abc acme --type resume --enhance`,
	Args: cobra.ExactArgs(2),
	RunE: runSmart,
}

var (
	smartType    string
	smartEnhance bool
)

func init() {
	smartCmd.Flags().StringVarP(&smartType, "type", "t", "both", "Documents to generate: resume, cover or both")
	smartCmd.Flags().BoolVarP(&smartEnhance, "enhance", "e", false, "Rewrite content with Gemini when an API key is available")

	rootCmd.AddCommand(smartCmd)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runSmart(cmd *cobra.Command, args []string) error {
	url, outputName := args[0], args[1]
	docType, err := pipeline.ParseDocType(smartType)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	enhance := smartEnhance || app.settings.Enhance
	enhancer := rewriting.NewDisabled()
	if enhance {
		enhancer = app.enhancer(ctx)
	}
	defer func() { _ = enhancer.Close() }()

	fmt.Fprintf(out, "Tailoring %s for: %s\n", docType, url)
	result, err := app.pipeline(out, enhancer).Smart(ctx, pipeline.SmartRequest{
		URL:        url,
		OutputName: outputName,
		DocType:    docType,
		Enhance:    enhance,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	if result.FetchErr != nil {
		fmt.Fprintf(out, "⚠️  Posting could not be fetched, documents use default posting fields\n")
	}
	fmt.Fprintf(out, "✅ Tailored %s at %s\n", result.Analysis.Posting.Title, result.Analysis.Posting.Company)
	printPath(out, "Role config", result.RoleConfigPath)
	printPath(out, "Resume", result.ResumePath)
	printPath(out, "Cover config", result.CoverConfigPath)
	printPath(out, "Cover letter", result.CoverPath)
	printPath(out, "Analysis", result.ReportPath)
	if result.Enhanced {
		fmt.Fprintf(out, "   Enhanced with %s key\n", enhancer.CredentialSource())
	}
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func printPath(out io.Writer, label, path string) {
	if path == "" {
		return
	}
	fmt.Fprintf(out, "   %-13s %s\n", label+":", path)
}
