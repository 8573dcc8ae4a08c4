package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/alexanderramin/prescreen/internal/analysis"
	"github.com/alexanderramin/prescreen/internal/cli/formatter"
	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/alexanderramin/prescreen/internal/wizard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const resultWidth = 80

var resultFormats = []string{"text", "json", "markdown", "html"}

func newSubmitCmd(app *App) *cobra.Command {
	var answersPath, format string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an answers file and print the assessment",
		Long: "submit walks the answers in a YAML or JSON file through every step,\n" +
			"stops at the first incomplete step, and otherwise prints the assessment.",
		Example: "  prescreen submit --answers answers.yaml\n" +
			"  prescreen submit --answers answers.json --format markdown",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(resultFormats, format) {
				return fmt.Errorf("invalid --format %q, must be one of: text, json, markdown, html", format)
			}
			answers, err := loadAnswers(answersPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := checkAnswers(answers, app.Flow, app.Catalog); err != nil {
				return err
			}

			ctrl, err := app.newController(app.commandLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return runSubmission(cmd, ctrl, answers, format)
		},
	}

	cmd.Flags().StringVarP(&answersPath, "answers", "a", "", "Answers file (YAML or JSON, - for stdin)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, markdown, html")

	return cmd
}

// runSubmission drives ctrl through every step with EditField and Next.
func runSubmission(cmd *cobra.Command, ctrl *wizard.Controller, answers domain.FieldMap, format string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	for {
		snap := ctrl.Snapshot()
		if err := ctrl.EditField(stepAnswers(snap.Descriptor, answers)); err != nil {
			return err
		}

		stop := func() {}
		if snap.Descriptor.Terminal && isTerminal(cmd.ErrOrStderr()) {
			stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Analyzing...")
		}
		outcome, err := ctrl.Next(ctx)
		stop()

		switch outcome {
		case wizard.OutcomeAdvanced:
			continue
		case wizard.OutcomeBlocked:
			fmt.Fprint(out, formatter.FormatValidationErrors(snap.Descriptor.Title, ctrl.Snapshot().Errors))
			return fmt.Errorf("step %d of %d (%s) is incomplete", snap.Step+1, snap.Steps, snap.Descriptor.Key)
		case wizard.OutcomeFailed:
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleRed.Render(failureMessage(err)))
			return err
		case wizard.OutcomeSubmitted:
			result := ctrl.Snapshot().Result
			if result == nil {
				return wizard.ErrInvalidResult
			}
			return writeResult(out, *result, format)
		default:
			return fmt.Errorf("submission %s", outcome)
		}
	}
}

func writeResult(w io.Writer, r domain.AnalysisResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(analysis.ToResponse(r), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "markdown":
		_, err := fmt.Fprint(w, formatter.ResultMarkdown(r))
		return err
	case "html":
		page, err := formatter.ResultHTML(r)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, page)
		return err
	default:
		_, err := fmt.Fprint(w, formatter.FormatResult(r, resultWidth))
		return err
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
