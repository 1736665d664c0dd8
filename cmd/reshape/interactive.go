package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vexlang/array-runtime/descriptor"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func lipglossHeader(styled bool) lipgloss.Style {
	if !styled {
		return lipgloss.NewStyle()
	}
	return labelStyle
}

func lipglossValue(styled bool) lipgloss.Style {
	if !styled {
		return lipgloss.NewStyle()
	}
	return resultStyle
}

type modelState int

const (
	stateInput modelState = iota
	stateShowResult
)

type interactiveModel struct {
	err      error
	result   string
	inputs   []textinput.Model
	focusIdx int
	state    modelState
}

var inputLabels = [...]string{"source", "shape", "pad", "order"}

func newInteractiveModel() *interactiveModel {
	m := &interactiveModel{
		inputs: make([]textinput.Model, len(inputLabels)),
	}
	placeholders := [...]string{"1,2,3,4,5,6", "2,3", "optional", "optional"}
	for i, label := range inputLabels {
		ti := textinput.New()
		ti.Prompt = label + ": "
		ti.Placeholder = placeholders[i]
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

type reshapeDoneMsg struct {
	err    error
	result string
}

func (m *interactiveModel) runReshape() tea.Msg {
	source, err := parseInts(m.inputs[0].Value())
	if err != nil {
		return reshapeDoneMsg{err: err}
	}
	shape, err := parseInts(m.inputs[1].Value())
	if err != nil {
		return reshapeDoneMsg{err: err}
	}
	pad, err := parseInts(m.inputs[2].Value())
	if err != nil {
		return reshapeDoneMsg{err: err}
	}
	order, err := parseInts(m.inputs[3].Value())
	if err != nil {
		return reshapeDoneMsg{err: err}
	}

	srcDesc := descriptor.FromInt64s(source)
	defer srcDesc.Destroy()
	shapeDesc := descriptor.FromInt64s(shape)
	defer shapeDesc.Destroy()
	var padDesc, orderDesc *descriptor.Descriptor
	if len(pad) > 0 {
		padDesc = descriptor.FromInt64s(pad)
		defer padDesc.Destroy()
	}
	if len(order) > 0 {
		orderDesc = descriptor.FromInt64s(order)
		defer orderDesc.Destroy()
	}

	result, err := callReshape(srcDesc, shapeDesc, padDesc, orderDesc)
	if err != nil {
		return reshapeDoneMsg{err: err}
	}
	defer result.Destroy()

	return reshapeDoneMsg{result: renderResult(result, true)}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateShowResult || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "enter":
			switch m.state {
			case stateInput:
				return m, m.runReshape
			case stateShowResult:
				m.state = stateInput
				m.result = ""
				m.err = nil
				return m, nil
			}

		case "tab", "down":
			if m.state == stateInput {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
				return m, nil
			}

		case "shift+tab", "up":
			if m.state == stateInput {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + len(m.inputs) - 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
				return m, nil
			}

		case "esc":
			if m.state == stateShowResult {
				m.state = stateInput
				m.result = ""
				m.err = nil
			}
			return m, nil
		}

	case reshapeDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInput {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Reshape Explorer"))
	b.WriteString("\n\n")

	switch m.state {
	case stateInput:
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View())
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		b.WriteString(helpStyle.Render("tab next field • enter reshape • ctrl+c quit"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		} else {
			b.WriteString(m.result)
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
