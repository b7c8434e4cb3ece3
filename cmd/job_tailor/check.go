package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/config"
)

// optionalFiles are reported by check but do not fail it.
var optionalFiles = []string{
	config.GeneralConfigFile,
	config.CoverTemplateFile,
	config.ResumeContentBlocksFile,
	config.CoverContentBlocksFile,
	config.RoleTemplatesDir,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the required configuration files exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheck(cmd.OutOrStdout(), app.ws)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List role configs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runList(cmd.OutOrStdout(), app.ws)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd, listCmd)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runCheck(out io.Writer, ws *config.Workspace) error {
	fmt.Fprintf(out, "Workspace: %s\n", ws.BaseDir)

	missing := map[string]bool{}
	for _, rel := range ws.MissingRequired() {
		missing[rel] = true
	}
	for _, rel := range config.RequiredFiles {
		if missing[rel] {
			fmt.Fprintf(out, "  ✗ %s (missing)\n", rel)
		} else {
			fmt.Fprintf(out, "  ✓ %s\n", rel)
		}
	}
	for _, rel := range optionalFiles {
		if _, err := os.Stat(ws.Path(rel)); err != nil {
			fmt.Fprintf(out, "  - %s (optional, not found)\n", rel)
		} else {
			fmt.Fprintf(out, "  ✓ %s\n", rel)
		}
	}

	if err := ws.CheckRequired(); err != nil {
		return err
	}

	personal, err := ws.LoadPersonal()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n✅ Configuration OK for %s", personal.Personal.Name)
	if personal.Personal.Email != "" {
		fmt.Fprintf(out, " <%s>", personal.Personal.Email)
	}
	fmt.Fprintln(out)
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runList(out io.Writer, ws *config.Workspace) error {
	summaries, err := ws.ListRoleConfigs()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(out, "No role configs found in %s\n", ws.Path(config.RoleTemplatesDir))
			return nil
		}
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintf(out, "No role configs found in %s\n", ws.Path(config.RoleTemplatesDir))
		return nil
	}

	fmt.Fprintln(out, "Available role configs:")
	for _, s := range summaries {
		if s.Err != nil {
			fmt.Fprintf(out, "  %-32s (error: %v)\n", s.File, s.Err)
			continue
		}
		fmt.Fprintf(out, "  %-32s %s", s.File, s.Role)
		if s.Focus != "" {
			fmt.Fprintf(out, " [%s]", s.Focus)
		}
		fmt.Fprintln(out)
	}
	return nil
}
