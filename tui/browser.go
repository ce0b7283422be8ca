// Package tui is the interactive recipe browser: a recipe table, a live feasibility panel for
// the selected recipe and a guarded produce action.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dstockto/brewctl/api"
	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fde68a"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 1)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#bbf7d0"))
	shortStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#71717a"))
	askStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fde68a"))
)

// Deps are the services the browser drives.
type Deps struct {
	Catalog      *brewery.RecipeCatalog
	Ledger       *brewery.StockLedger
	Orchestrator *brewery.Orchestrator
}

type loadedMsg struct {
	token   brewery.Token
	snap    models.Snapshot
	recipes []models.Recipe
	err     error
}

type detailMsg struct {
	token  brewery.Token
	recipe models.Recipe
	err    error
}

type producedMsg struct {
	res brewery.ProductionResult
	err error
}

type Model struct {
	ctx        context.Context
	deps       Deps
	view       *brewery.View
	table      table.Model
	spinner    spinner.Model
	loading    bool
	selectedID int
	batches    int
	confirming bool
	status     string
	statusErr  bool
}

func New(ctx context.Context, deps Deps, view *brewery.View) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 4},
			{Title: "Recipe", Width: 24},
			{Title: "Style", Width: 18},
			{Title: "ABV", Width: 5},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return Model{
		ctx:     ctx,
		deps:    deps,
		view:    view,
		table:   t,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
		batches: 1,
	}
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, deps Deps, view *brewery.View) error {
	_, err := tea.NewProgram(New(ctx, deps, view), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.reload())
}

// reload fetches stock and the recipe list under a fresh stock token.
func (m *Model) reload() tea.Cmd {
	m.loading = true
	token := m.view.Begin()
	ctx, deps := m.ctx, m.deps
	return func() tea.Msg {
		snap, err := deps.Ledger.FetchStock(ctx)
		if err != nil {
			return loadedMsg{token: token, err: err}
		}
		recipes, err := deps.Catalog.FetchRecipes(ctx)
		return loadedMsg{token: token, snap: snap, recipes: recipes, err: err}
	}
}

// selectCurrent loads the detail of the recipe under the cursor. Earlier selections still in
// flight are superseded.
func (m *Model) selectCurrent() tea.Cmd {
	recipes := m.view.Recipes()
	i := m.table.Cursor()
	if i < 0 || i >= len(recipes) {
		return nil
	}
	id := recipes[i].ID
	if id == m.selectedID {
		return nil
	}
	m.selectedID = id
	m.confirming = false
	token := m.view.Select()
	ctx, catalog := m.ctx, m.deps.Catalog
	return func() tea.Msg {
		r, err := catalog.FetchRecipe(ctx, id)
		return detailMsg{token: token, recipe: r, err: err}
	}
}

func (m *Model) produce() tea.Cmd {
	detail, ok := m.view.Detail()
	if !ok {
		return nil
	}
	m.loading = true
	ctx, orch, view, batches := m.ctx, m.deps.Orchestrator, m.view, m.batches
	return func() tea.Msg {
		res, err := orch.Produce(ctx, view, detail, batches)
		return producedMsg{res: res, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		if msg.err != nil {
			if !m.view.IsCurrentReload(msg.token) {
				return m, nil
			}
			m.loading = false
			m.setError(msg.err)
			return m, nil
		}
		if !m.view.ApplySnapshot(msg.token, msg.snap) {
			return m, nil
		}
		m.loading = false
		m.view.SetRecipes(msg.recipes)
		rows := make([]table.Row, 0, len(msg.recipes))
		for _, r := range msg.recipes {
			abv := ""
			if r.ABV.Valid {
				abv = r.ABV.Decimal.String()
			}
			rows = append(rows, table.Row{fmt.Sprint(r.ID), r.Name, r.Style, abv})
		}
		m.table.SetRows(rows)
		m.selectedID = 0
		return m, m.selectCurrent()

	case detailMsg:
		if msg.err != nil {
			if !m.view.IsCurrentSelection(msg.token) {
				return m, nil
			}
			m.setError(msg.err)
			return m, nil
		}
		m.view.ApplyDetail(msg.token, msg.recipe)
		return m, nil

	case producedMsg:
		m.loading = false
		m.confirming = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Produced %d batch(es) of %s", msg.res.Batches, msg.res.RecipeName)
		if msg.res.Message != "" {
			m.status += ": " + msg.res.Message
		}
		m.statusErr = false
		if msg.res.RefreshErr != nil {
			m.status += " (stock refresh failed, press r)"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		switch msg.String() {
		case "y", "Y":
			m.status = ""
			return m, m.produce()
		case "ctrl+c":
			return m, tea.Quit
		default:
			m.confirming = false
			m.status = "Production cancelled"
			m.statusErr = false
			return m, nil
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.status = ""
		return m, m.reload()
	case "b":
		m.batches++
		return m, nil
	case "B":
		if m.batches > 1 {
			m.batches--
		}
		return m, nil
	case "p":
		detail, ok := m.view.Detail()
		if !ok || m.loading {
			return m, nil
		}
		m.confirming = true
		m.status = fmt.Sprintf("Produce %d batch(es) of %s? (y/n)", m.batches, detail.Name)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, tea.Batch(cmd, m.selectCurrent())
}

func (m *Model) setError(err error) {
	m.statusErr = true
	var perr *api.ProductionError
	var inf *brewery.InfeasibleError
	switch {
	case errors.As(err, &perr):
		m.status = "Rejected: " + perr.Message
	case errors.As(err, &inf):
		m.status = inf.Error()
	default:
		m.status = err.Error()
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("brewctl recipes"))
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.table.View(), "  ", panelStyle.Render(m.panel())))
	b.WriteString("\n")
	if m.status != "" {
		switch {
		case m.confirming:
			b.WriteString(askStyle.Render(m.status))
		case m.statusErr:
			b.WriteString(shortStyle.Render(m.status))
		default:
			b.WriteString(okStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("↑/↓ select • b/B batches • p produce • r reload • q quit"))
	return b.String()
}

// panel renders the feasibility of the selected recipe at the current batch count.
func (m Model) panel() string {
	detail, ok := m.view.Detail()
	if !ok {
		return hintStyle.Render("loading recipe…")
	}
	snap := m.view.Snapshot()
	f := brewery.Evaluate(detail, snap, m.batches)

	var b strings.Builder
	fmt.Fprintf(&b, "%s × %d\n\n", detail.Name, m.batches)
	for _, req := range f.Recipe.Requirements() {
		have := snap.Available(req)
		line := fmt.Sprintf("%-6s %-16s %10s / %-10s", req.Category, req.Name, models.FormatQuantity(req.Quantity), models.FormatQuantity(have))
		block := models.CoverageBlock(have, req.Quantity)
		if have.LessThan(req.Quantity) {
			line = shortStyle.Render(line)
		} else {
			line = okStyle.Render(line)
		}
		if block != "" {
			line = block + " " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	if f.Feasible {
		b.WriteString(okStyle.Render("Can produce"))
	} else {
		b.WriteString(shortStyle.Render(fmt.Sprintf("Short of %d ingredient(s)", len(f.Shortfalls))))
	}
	if n, ok := brewery.MaxBatches(detail, snap); ok {
		b.WriteString(hintStyle.Render(fmt.Sprintf("  (max %d)", n)))
	}
	return b.String()
}
