package cli

import (
	"fmt"

	"github.com/alexanderramin/prescreen/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newValidateCmd(app *App) *cobra.Command {
	var answersPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an answers file against every step without submitting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := loadAnswers(answersPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := checkAnswers(answers, app.Flow, app.Catalog); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for i, step := range app.Flow.Steps() {
				title := fmt.Sprintf("%d. %s", i+1, step.Title)
				errs := app.Flow.Validate(i, answers)
				if errs.OK() {
					fmt.Fprint(out, formatter.FormatStepOK(title))
					continue
				}
				failed++
				fmt.Fprint(out, formatter.FormatValidationErrors(title, errs))
			}

			total := app.Flow.Len()
			fmt.Fprintf(out, "\nComplete %s\n", formatter.RenderProgress(float64(total-failed)/float64(total), 20))

			if failed > 0 {
				return fmt.Errorf("%d of %d steps incomplete", failed, total)
			}
			fmt.Fprintln(out, formatter.Dim("All steps complete."))
			return nil
		},
	}

	cmd.Flags().StringVarP(&answersPath, "answers", "a", "", "Answers file (YAML or JSON, - for stdin)")

	return cmd
}
