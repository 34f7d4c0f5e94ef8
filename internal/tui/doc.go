// Package tui provides the terminal user interface for the review command.
//
// The review flow walks a user through a full round trip in one sitting:
//   - Pick a dataset
//   - Pull the current objects into a workbook
//   - Edit the workbook in Excel, then come back
//   - Validate the edited workbook and inspect the findings
//   - Push the values back to the platform
//
// The heavy lifting (API calls, workbook IO) is behind the Runner
// interface so the model can be tested without a platform connection.
//
// Usage:
//
//	app := tui.NewReviewApp(ctx, runner, defs)
//	p := tea.NewProgram(app, tea.WithAltScreen())
//	_, err := p.Run()
package tui
