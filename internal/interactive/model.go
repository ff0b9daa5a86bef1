// Package interactive implements the orchestrator's interactive stepping
// shell (§4.H): step/run/runto the compile context's stage table, plus
// the list/show inspection commands, as a bubbletea program.
package interactive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/viant/nocc/internal/compiler"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	stageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Model is the bubbletea model wrapping a compile context's stage table
// (§4.H's "the orchestrator reads command lines via a line-editor,
// dispatches through a registry of interaction handlers").
type Model struct {
	pipeline *compiler.Pipeline
	ctx      *compiler.Context
	input    textinput.Model
	history  []string
	done     bool
	lastErr  error
}

// New creates an interactive session over pipeline and ctx.
func New(pipeline *compiler.Pipeline, ctx *compiler.Context) Model {
	ti := textinput.New()
	ti.Placeholder = "step | run | runto <n> | list stages | list trees | show <n> | sshow <n> | quit"
	ti.Focus()
	return Model{pipeline: pipeline, ctx: ctx, input: ti}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			m.history = append(m.history, promptStyle.Render("> ")+line)
			result, err := m.dispatch(line)
			m.lastErr = err
			if result != "" {
				m.history = append(m.history, result)
			}
			if err != nil {
				m.history = append(m.history, errorStyle.Render(err.Error()))
			}
			if line == "quit" || line == "q" {
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	for _, line := range m.history {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	return b.String()
}

// Done reports whether the session has been told to quit (for a host
// driving the model outside of tea.Program, e.g. in tests).
func (m Model) Done() bool { return m.done }

// dispatch handles one command line, mirroring the interaction-handler
// registry's raw-line/tokenised-bits split: simple verbs are matched
// whole, "list"/"show"/"sshow"/"runto" take an argument.
func (m *Model) dispatch(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	switch fields[0] {
	case "step", "s":
		return m.step()
	case "run", "r":
		return m.run()
	case "runto":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: runto <stage-index>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return "", fmt.Errorf("runto: %w", err)
		}
		return m.runTo(n)
	case "list":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: list stages|trees")
		}
		return m.list(fields[1])
	case "show":
		return m.show(fields, false)
	case "sshow":
		return m.show(fields, true)
	case "quit", "q":
		return "bye", nil
	default:
		return "", fmt.Errorf("unrecognised command %q", fields[0])
	}
}

func (m *Model) step() (string, error) {
	s := m.pipeline.StageAt(m.ctx.AtStage)
	if s == nil {
		return "at end of compilation run", nil
	}
	res, err := m.pipeline.Step(m.ctx)
	if err != nil {
		return "", err
	}
	return stageStyle.Render(fmt.Sprintf("stage %q -> %s", s.ID, resultName(res))), nil
}

func (m *Model) run() (string, error) {
	res, err := m.pipeline.Run(m.ctx)
	if err != nil {
		return "", err
	}
	return stageStyle.Render("run stopped: " + resultName(res)), nil
}

func (m *Model) runTo(n int) (string, error) {
	res, err := m.pipeline.RunTo(m.ctx, n)
	if err != nil {
		return "", err
	}
	return stageStyle.Render("runto stopped: " + resultName(res)), nil
}

func (m *Model) list(what string) (string, error) {
	switch what {
	case "stages":
		var b strings.Builder
		for i, name := range m.pipeline.Names() {
			marker := "  "
			if i == m.ctx.AtStage {
				marker = "->"
			}
			fmt.Fprintf(&b, "%s %-3d %s\n", marker, i, name)
		}
		return b.String(), nil
	case "trees":
		var b strings.Builder
		for i, t := range m.ctx.SrcTrees {
			tag := "<nil>"
			if t != nil && t.Tag != nil {
				tag = t.Tag.Name
			}
			fmt.Fprintf(&b, "%d: %s\n", i, tag)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("usage: list stages|trees")
	}
}

func (m *Model) show(fields []string, short bool) (string, error) {
	if len(fields) != 2 {
		return "", fmt.Errorf("usage: %s <n>", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", err
	}
	if n < 0 || n >= len(m.ctx.SrcTrees) {
		return "", fmt.Errorf("no such tree index %d", n)
	}
	root := m.ctx.SrcTrees[n]
	if short {
		return fmt.Sprintf("tree %d: root tag %s, %d subnodes", n, root.Tag.Name, len(root.Sub)), nil
	}
	return fmt.Sprintf("tree %d: root tag %s, origin %s:%d", n, root.Tag.Name, root.Origin.File, root.Origin.Line), nil
}

func resultName(r compiler.Result) string {
	switch r {
	case compiler.OK:
		return "ok"
	case compiler.ExitComp:
		return "exit-compiler"
	case compiler.ErrExit:
		return "error-exit"
	case compiler.CleanExit:
		return "clean-exit"
	case compiler.AtEnd:
		return "at-end"
	case compiler.DoExit:
		return "do-exit"
	default:
		return "unknown"
	}
}
