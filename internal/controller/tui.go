package controller

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// TUI behaves like SimpleUI but can page long reports with Bubble Tea.
type TUI struct {
	*SimpleUI
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd)}
}

// DisplayReport opens a pager for text reports in interactive mode.
func (t *TUI) DisplayReport(ctx context.Context, summary m.Summary) error {
	if !t.config.interactive || t.config.format != FormatText {
		return t.SimpleUI.DisplayReport(ctx, summary)
	}

	program := tea.NewProgram(
		newPagerModel("gdshadow report", renderReport(summary)),
		tea.WithContext(ctx),
		tea.WithOutput(t.cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)

	_, err := program.Run()

	return err
}

const pagerChromeHeight = 2

// pagerModel is a scrollable view over pre-rendered text.
type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{title: title, content: content}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return pm, tea.Quit
		}
	case tea.WindowSizeMsg:
		height := msg.Height - pagerChromeHeight
		if height < 1 {
			height = 1
		}

		if !pm.ready {
			pm.viewport = viewport.New(msg.Width, height)
			pm.viewport.SetContent(pm.content)
			pm.ready = true
		} else {
			pm.viewport.Width = msg.Width
			pm.viewport.Height = height
		}
	}

	var cmd tea.Cmd

	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	if !pm.ready {
		return "loading...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(pm.title) + "\n")
	b.WriteString(pm.viewport.View() + "\n")
	b.WriteString(faintStyle.Render("↑/↓ scroll • q quit"))

	return b.String()
}
