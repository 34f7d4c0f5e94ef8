package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/woonstad/datamakelaar/internal/dataset"
	"github.com/woonstad/datamakelaar/internal/push"
	"github.com/woonstad/datamakelaar/internal/validate"
)

// Runner performs the pull, validate, and push work for the review flow.
type Runner interface {
	// Pull fetches the dataset's objects and writes a workbook.
	// It returns the workbook path and the number of objects written.
	Pull(ctx context.Context, def *dataset.Definition) (string, int, error)
	// Validate reads and checks a workbook. The row count is returned
	// alongside the report.
	Validate(path string, def *dataset.Definition) (*validate.Report, int, error)
	// Push sends the workbook's values back to the platform.
	Push(ctx context.Context, path string, def *dataset.Definition) (*push.Report, error)
}

// step is the current position in the review flow.
type step int

const (
	stepPick step = iota
	stepPulling
	stepEdit
	stepValidating
	stepReport
	stepPushing
	stepDone
)

// PullDoneMsg is sent when the pull finishes.
type PullDoneMsg struct {
	Path    string
	Objects int
	Err     error
}

// ValidateDoneMsg is sent when validation finishes.
type ValidateDoneMsg struct {
	Report *validate.Report
	Rows   int
	Err    error
}

// PushDoneMsg is sent when the push finishes.
type PushDoneMsg struct {
	Report *push.Report
	Err    error
}

// ReviewApp is the model for the review flow.
type ReviewApp struct {
	ctx    context.Context
	runner Runner
	defs   []*dataset.Definition

	step     step
	cursor   int
	selected *dataset.Definition

	workbook string
	objects  int
	rows     int

	pathInput textinput.Model
	spin      spinner.Model

	report     *validate.Report
	pushReport *push.Report
	err        error

	width    int
	height   int
	quitting bool

	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	dimStyle      lipgloss.Style
	okStyle       lipgloss.Style
	warnStyle     lipgloss.Style
	errStyle      lipgloss.Style
	helpStyle     lipgloss.Style
}

// NewReviewApp creates a ReviewApp over the given datasets.
func NewReviewApp(ctx context.Context, runner Runner, defs []*dataset.Definition) *ReviewApp {
	ti := textinput.New()
	ti.Placeholder = "pad naar werkmap..."
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &ReviewApp{
		ctx:       ctx,
		runner:    runner,
		defs:      defs,
		pathInput: ti,
		spin:      sp,
		width:     80,
		height:    24,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 2),
		selectedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		okStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		warnStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")),
		errStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Init implements tea.Model.
func (a *ReviewApp) Init() tea.Cmd {
	return a.spin.Tick
}

// Update implements tea.Model.
func (a *ReviewApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.pathInput.Width = msg.Width - 6
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.updateKey(msg)

	case PullDoneMsg:
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, nil
		}
		a.workbook = msg.Path
		a.objects = msg.Objects
		a.step = stepEdit
		a.pathInput.SetValue(msg.Path)
		return a, a.pathInput.Focus()

	case ValidateDoneMsg:
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, nil
		}
		a.report = msg.Report
		a.rows = msg.Rows
		a.step = stepReport
		return a, nil

	case PushDoneMsg:
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, nil
		}
		a.pushReport = msg.Report
		a.step = stepDone
		return a, nil
	}

	return a, nil
}

func (a *ReviewApp) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return a, tea.Quit
	}

	switch a.step {
	case stepPick:
		switch msg.String() {
		case "q", "esc":
			a.quitting = true
			return a, tea.Quit
		case "up", "k":
			if a.cursor > 0 {
				a.cursor--
			}
		case "down", "j":
			if a.cursor < len(a.defs)-1 {
				a.cursor++
			}
		case "enter":
			a.selected = a.defs[a.cursor]
			a.step = stepPulling
			return a, tea.Batch(a.spin.Tick, a.pullCmd())
		}

	case stepEdit:
		switch msg.String() {
		case "esc":
			a.quitting = true
			return a, tea.Quit
		case "enter":
			path := strings.TrimSpace(a.pathInput.Value())
			if path == "" {
				return a, nil
			}
			a.workbook = path
			a.pathInput.Blur()
			a.step = stepValidating
			return a, tea.Batch(a.spin.Tick, a.validateCmd())
		default:
			var cmd tea.Cmd
			a.pathInput, cmd = a.pathInput.Update(msg)
			return a, cmd
		}

	case stepReport:
		switch msg.String() {
		case "q", "esc":
			a.quitting = true
			return a, tea.Quit
		case "e":
			a.report = nil
			a.step = stepEdit
			return a, a.pathInput.Focus()
		case "p", "y":
			if a.report != nil && a.report.OK() {
				a.step = stepPushing
				return a, tea.Batch(a.spin.Tick, a.pushCmd())
			}
		}

	case stepDone:
		a.quitting = true
		return a, tea.Quit
	}

	return a, nil
}

// fail records the error and jumps to the final screen.
func (a *ReviewApp) fail(err error) {
	a.err = err
	a.step = stepDone
}

func (a *ReviewApp) pullCmd() tea.Cmd {
	return func() tea.Msg {
		path, n, err := a.runner.Pull(a.ctx, a.selected)
		return PullDoneMsg{Path: path, Objects: n, Err: err}
	}
}

func (a *ReviewApp) validateCmd() tea.Cmd {
	return func() tea.Msg {
		report, rows, err := a.runner.Validate(a.workbook, a.selected)
		return ValidateDoneMsg{Report: report, Rows: rows, Err: err}
	}
}

func (a *ReviewApp) pushCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := a.runner.Push(a.ctx, a.workbook, a.selected)
		return PushDoneMsg{Report: report, Err: err}
	}
}

// View implements tea.Model.
func (a *ReviewApp) View() string {
	if a.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(a.titleStyle.Render(" Datamakelaar review "))
	sb.WriteString("\n\n")

	switch a.step {
	case stepPick:
		sb.WriteString("Kies een dataset:\n\n")
		for i, def := range a.defs {
			line := fmt.Sprintf("  %s (%s, %d velden)", def.Name, def.ObjectType, len(def.Fields))
			if i == a.cursor {
				line = a.selectedStyle.Render("▸" + line[1:])
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(a.helpStyle.Render("↑/↓ kiezen • enter bevestigen • q stoppen"))

	case stepPulling:
		sb.WriteString(fmt.Sprintf("%s %s ophalen...", a.spin.View(), a.selected.Name))

	case stepEdit:
		sb.WriteString(a.okStyle.Render(fmt.Sprintf("✓ %d objecten geëxporteerd", a.objects)))
		sb.WriteString("\n\n")
		sb.WriteString("Bewerk de werkmap in Excel en kom hier terug.\n")
		sb.WriteString("Pad naar de (bewerkte) werkmap:\n\n")
		sb.WriteString("  " + a.pathInput.View())
		sb.WriteString("\n\n")
		sb.WriteString(a.helpStyle.Render("enter valideren • esc stoppen"))

	case stepValidating:
		sb.WriteString(fmt.Sprintf("%s werkmap controleren...", a.spin.View()))

	case stepReport:
		a.viewReport(&sb)

	case stepPushing:
		sb.WriteString(fmt.Sprintf("%s wijzigingen versturen...", a.spin.View()))

	case stepDone:
		a.viewDone(&sb)
	}

	sb.WriteString("\n")
	return sb.String()
}

func (a *ReviewApp) viewReport(sb *strings.Builder) {
	criticals := a.report.Criticals()
	warnings := a.report.Warnings()

	for _, f := range criticals {
		sb.WriteString(a.errStyle.Render("✗ " + f.String()))
		sb.WriteString("\n")
	}
	for _, f := range warnings {
		sb.WriteString(a.warnStyle.Render("! " + f.String()))
		sb.WriteString("\n")
	}
	if len(criticals) == 0 && len(warnings) == 0 {
		sb.WriteString(a.okStyle.Render(fmt.Sprintf("✓ %d rijen, geen problemen", a.rows)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if a.report.OK() {
		sb.WriteString(a.helpStyle.Render("p pushen • e opnieuw valideren • q stoppen"))
	} else {
		sb.WriteString(a.errStyle.Render("Push geblokkeerd door critical findings."))
		sb.WriteString("\n")
		sb.WriteString(a.helpStyle.Render("e opnieuw valideren • q stoppen"))
	}
}

func (a *ReviewApp) viewDone(sb *strings.Builder) {
	if a.err != nil {
		sb.WriteString(a.errStyle.Render("✗ " + a.err.Error()))
	} else if a.pushReport != nil {
		sb.WriteString(a.okStyle.Render(fmt.Sprintf("✓ %d bijgewerkt, %d aangemaakt, %d mislukt (%d batches)",
			a.pushReport.Updated, a.pushReport.Created, len(a.pushReport.Failed), a.pushReport.Batches)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(a.helpStyle.Render("druk op een toets om af te sluiten"))
}

// NewReviewProgram creates a Bubbletea program for the review flow.
func NewReviewProgram(ctx context.Context, runner Runner, defs []*dataset.Definition) (*tea.Program, *ReviewApp) {
	app := NewReviewApp(ctx, runner, defs)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	return p, app
}
