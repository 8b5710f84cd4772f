package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/truespec/truespec/differ"
	"github.com/truespec/truespec/internal/cliutil"
	"github.com/truespec/truespec/report"
)

// DiffFlags contains flags for the diff command
type DiffFlags struct {
	Format       string
	BreakingOnly bool
}

// SetupDiffFlags creates and configures a FlagSet for the diff command.
// Returns the FlagSet and a DiffFlags struct with bound flag variables.
func SetupDiffFlags() (*flag.FlagSet, *DiffFlags) {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags := &DiffFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, yaml, or markdown")
	fs.BoolVar(&flags.BreakingOnly, "breaking-only", false, "only report breaking findings")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: truespec diff [flags] <base> <head>\n\n")
		cliutil.Writef(fs.Output(), "Compare two OpenAPI documents (files, URLs, or '-' for stdin)\n")
		cliutil.Writef(fs.Output(), "and report how the head revision deviates from the base.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  Human-readable finding list\n")
		cliutil.Writef(fs.Output(), "  markdown        The summary document posted to CI\n")
		cliutil.Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  truespec diff api-v1.yaml api-v2.yaml\n")
		cliutil.Writef(fs.Output(), "  truespec diff --format markdown api-v1.yaml api-v2.yaml\n")
		cliutil.Writef(fs.Output(), "  truespec diff --format json api-v1.yaml api-v2.yaml | jq '.summary.breaking'\n")
		cliutil.Writef(fs.Output(), "  truespec diff https://example.com/api/v1.yaml https://example.com/api/v2.yaml\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    No breaking findings\n")
		cliutil.Writef(fs.Output(), "  1    Breaking findings detected\n")
	}

	return fs, flags
}

// HandleDiff executes the diff command
func HandleDiff(ctx context.Context, args []string) error {
	fs, flags := SetupDiffFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("diff command requires exactly two file paths or URLs")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	baseBytes, err := ReadSpecInput(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading base: %w", err)
	}
	headBytes, err := ReadSpecInput(ctx, fs.Arg(1))
	if err != nil {
		return fmt.Errorf("reading head: %w", err)
	}

	rep, err := differ.DiffWithOptions(
		differ.WithBaseBytes(baseBytes),
		differ.WithHeadBytes(headBytes),
	)
	if err != nil {
		return fmt.Errorf("comparing specifications: %w", err)
	}

	if flags.BreakingOnly {
		rep = filterBreaking(rep)
	}

	switch flags.Format {
	case FormatJSON, FormatYAML:
		if err := OutputStructured(rep, flags.Format); err != nil {
			return err
		}
	case FormatMarkdown:
		fmt.Print(report.Markdown(rep))
	default:
		printTextReport(rep)
	}

	if rep.HasBreaking() {
		os.Exit(1)
	}
	return nil
}

// filterBreaking keeps only the breaking findings of a report.
func filterBreaking(rep *differ.Report) *differ.Report {
	filtered := make([]differ.Finding, 0, rep.Summary.Breaking)
	for _, f := range rep.Items {
		if f.Severity == differ.SeverityBreaking {
			filtered = append(filtered, f)
		}
	}
	return differ.NewReport(filtered)
}

// printTextReport renders the human-readable finding list.
func printTextReport(rep *differ.Report) {
	cliutil.Writef(os.Stdout, "%d finding(s): %d breaking, %d warning, %d info\n",
		rep.Summary.Total, rep.Summary.Breaking, rep.Summary.Warning, rep.Summary.Info)
	for _, f := range rep.Items {
		cliutil.Writef(os.Stdout, "%s\n", f)
	}
}
