package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the interactive questionnaire",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd, app)
		},
	}
}

// runWizard launches the full-screen wizard and blocks until the user quits.
func runWizard(cmd *cobra.Command, app *App) error {
	defer app.close()

	logger, err := app.wizardLogger()
	if err != nil {
		return err
	}
	ctrl, err := app.newController(logger)
	if err != nil {
		return err
	}

	m := newWizardModel(cmd.Context(), ctrl, app.Catalog)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = p.Run()
	return err
}
