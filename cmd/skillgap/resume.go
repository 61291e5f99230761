package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillgap/internal/convert"
	"github.com/pdiddy/skillgap/internal/extract"
	"github.com/pdiddy/skillgap/internal/resume"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Work with resume documents",
}

var resumeImportCmd = &cobra.Command{
	Use:   "import <resume> [resume...]",
	Short: "Turn resume documents into source bundles",
	Long: `Import converts each resume to plain text, detects its sections and work
experience entries, and writes them to <input-dir>/<owner>.yaml. Plain text
and Markdown are read directly, .docx files are parsed in process, and PDFs
go through the markitdown container image (docker or podman).

The owner defaults to the file name without extension; --owner only applies
to a single file. When a bundle already exists the resume and experience
entries are merged into it and every other record is kept; --replace starts
a fresh bundle instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResumeImport,
}

// importResult holds the outcome of a batch import.
type importResult struct {
	Imported int
	Failed   int
}

func runResumeImport(cmd *cobra.Command, args []string) error {
	owner, _ := cmd.Flags().GetString("owner")
	replace, _ := cmd.Flags().GetBool("replace")
	if owner != "" && len(args) > 1 {
		return fmt.Errorf("--owner applies to a single resume, got %d files", len(args))
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	router := convert.NewRouter()

	var result importResult
	for _, path := range args {
		name := owner
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if err := a.importResume(cmd.Context(), router, path, name, replace, cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "failed:   %s (%v)\n", path, err)
			result.Failed++
			continue
		}
		result.Imported++
	}

	if len(args) > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nBatch summary: %d imported, %d failed\n", result.Imported, result.Failed)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d resumes failed to import", result.Failed, len(args))
	}
	return nil
}

// importResume converts one document and writes or merges its bundle.
func (a *app) importResume(ctx context.Context, router *convert.Router, path, owner string, replace bool, w io.Writer) error {
	text, err := router.Text(ctx, path)
	if err != nil {
		return err
	}

	bundle := resume.Bundle(owner, text, a.matcher)
	out := filepath.Join(a.cfg.Extraction.InputDir, owner+".yaml")

	if !replace {
		existing, err := extract.LoadBundle(out)
		switch {
		case err == nil:
			bundle = resume.Merge(existing, bundle)
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}

	if err := extract.WriteBundle(out, bundle); err != nil {
		return err
	}

	sections := resume.Split(text)
	fmt.Fprintf(w, "imported: %s -> %s (%d sections, %d experience entries)\n",
		filepath.Base(path), out, len(sections), len(bundle.Experience))
	if listed := resume.ListedSkills(text, a.tax); len(listed) > 0 {
		fmt.Fprintf(w, "          listed skills: %s\n", strings.Join(listed, ", "))
	}
	return nil
}

func init() {
	resumeImportCmd.Flags().String("owner", "", "profile owner (default: file name without extension)")
	resumeImportCmd.Flags().String("input-dir", "", "directory of source bundles (default: inputs)")
	resumeImportCmd.Flags().Bool("replace", false, "overwrite an existing bundle instead of merging")

	resumeCmd.AddCommand(resumeImportCmd)
	rootCmd.AddCommand(resumeCmd)
}
