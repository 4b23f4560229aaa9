package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/ev3dc/command"
	"github.com/wippyai/ev3dc/internal/config"
	"github.com/wippyai/ev3dc/ops"
	"github.com/wippyai/ev3dc/reply"
	"github.com/wippyai/ev3dc/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	hexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0E68C"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// opInfo describes one operation offered by the interactive builder.
type opInfo struct {
	name   string
	params []paramInfo
	build  func(cmd *command.Command, args []int64) ([]command.DataType, error)
}

type paramInfo struct {
	name     string
	typeStr  string
	minimum  int64
	maximum  int64
	fallback string
}

func noParams(fn func() []byte) func(*command.Command, []int64) ([]command.DataType, error) {
	return func(cmd *command.Command, _ []int64) ([]command.DataType, error) {
		cmd.Bytecode = fn()
		return nil, nil
	}
}

func queryOp(q query) func(*command.Command, []int64) ([]command.DataType, error) {
	return func(cmd *command.Command, _ []int64) ([]command.DataType, error) {
		code, layout, err := q(cmd)
		cmd.Bytecode = code
		return layout, err
	}
}

var opTable = []opInfo{
	{name: "battery", build: queryOp(ops.BatteryPercentage)},
	{name: "brick-name", build: queryOp(ops.BrickName)},
	{name: "firmware", build: queryOp(ops.FirmwareVersion)},
	{name: "hardware", build: queryOp(ops.HardwareVersion)},
	{name: "devices", build: queryOp(ops.InputDeviceList)},
	{
		name: "motor-speed",
		params: []paramInfo{
			{"port", "u8", 0, int64(ops.PortAll), "1"},
			{"speed", "s8", -ops.MaxSpeed, ops.MaxSpeed, "50"},
			{"layer", "u8", 0, ops.MaxLayer, "0"},
		},
		build: func(cmd *command.Command, a []int64) ([]command.DataType, error) {
			code, err := ops.MotorSpeed(uint8(a[0]), int8(a[1]), uint8(a[2]))
			cmd.Bytecode = code
			return nil, err
		},
	},
	{
		name: "stop-motor",
		params: []paramInfo{
			{"port", "u8", 0, int64(ops.PortAll), "15"},
			{"layer", "u8", 0, ops.MaxLayer, "0"},
			{"brake", "bool", 0, 1, "0"},
		},
		build: func(cmd *command.Command, a []int64) ([]command.DataType, error) {
			code, err := ops.StopMotor(uint8(a[0]), uint8(a[1]), a[2] == 1)
			cmd.Bytecode = code
			return nil, err
		},
	},
	{
		name: "led",
		params: []paramInfo{
			{"color", "0-3", 0, int64(ops.LEDOrange), "1"},
			{"effect", "0/3/6", 0, int64(ops.LEDPulse), "0"},
		},
		build: func(cmd *command.Command, a []int64) ([]command.DataType, error) {
			code, err := ops.ShowLED(ops.LEDColor(a[0]), ops.LEDEffect(a[1]))
			cmd.Bytecode = code
			return nil, err
		},
	},
	{
		name: "tone",
		params: []paramInfo{
			{"volume", "u8", 0, ops.MaxVolume, "10"},
			{"freq", "u16", ops.MinFrequency, ops.MaxFrequency, "440"},
			{"ms", "u16", 0, 0x7FFF, "200"},
		},
		build: func(cmd *command.Command, a []int64) ([]command.DataType, error) {
			code, err := ops.PlayTone(uint8(a[0]), uint16(a[1]), uint16(a[2]))
			cmd.Bytecode = code
			return nil, err
		},
	},
	{name: "clear-screen", build: noParams(func() []byte { return append(ops.ClearScreen(), ops.UpdateScreen()...) })},
}

type interactiveModel struct {
	err      error
	client   *session.Client
	cfg      *config.Config
	sent     string
	received string
	fields   []string
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

type exchangeMsg struct {
	err      error
	sent     string
	received string
	fields   []string
}

func newInteractiveModel(client *session.Client, cfg *config.Config) *interactiveModel {
	return &interactiveModel{client: client, cfg: cfg, state: stateSelectOp}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(opTable)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.runOp
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.runOp

			case stateShowResult:
				m.reset()
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			m.reset()
		}

	case exchangeMsg:
		m.err = msg.err
		m.sent = msg.sent
		m.received = msg.received
		m.fields = msg.fields
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
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

func (m *interactiveModel) reset() {
	m.state = stateSelectOp
	m.inputs = nil
	m.err = nil
	m.sent, m.received = "", ""
	m.fields = nil
}

func (m *interactiveModel) prepareInputs() {
	op := opTable[m.selected]
	m.inputs = make([]textinput.Model, len(op.params))
	for i, p := range op.params {
		ti := textinput.New()
		ti.Placeholder = p.fallback
		ti.Prompt = p.name + ": "
		ti.Width = 20
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// parseArgs reads the inputs, using the placeholder for empty fields.
func (m *interactiveModel) parseArgs(op opInfo) ([]int64, error) {
	args := make([]int64, len(m.inputs))
	for i, input := range m.inputs {
		p := op.params[i]
		s := strings.TrimSpace(input.Value())
		if s == "" {
			s = p.fallback
		}
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
		if v < p.minimum || v > p.maximum {
			return nil, fmt.Errorf("%s: expect %d - %d, got %d", p.name, p.minimum, p.maximum, v)
		}
		args[i] = v
	}
	return args, nil
}

func (m *interactiveModel) runOp() tea.Msg {
	op := opTable[m.selected]
	args, err := m.parseArgs(op)
	if err != nil {
		return exchangeMsg{err: err}
	}

	cmd := newCommand(m.cfg)
	layout, err := op.build(cmd, args)
	if err != nil {
		return exchangeMsg{err: err}
	}
	frame, err := cmd.Bytes()
	if err != nil {
		return exchangeMsg{err: err}
	}
	out := exchangeMsg{sent: formatHex(frame)}

	rep, err := m.client.Exchange(context.Background(), cmd)
	if rep != nil {
		out.received = fmt.Sprintf("len=%d id=%d status=0x%02X memory=%s",
			rep.Length(), rep.ID(), rep.Status(), formatHex(rep.Memory()))
	}
	if err != nil {
		out.err = err
		return out
	}

	fields, err := reply.Split(rep.Memory(), layout...)
	if err != nil {
		out.err = err
		return out
	}
	for i, f := range fields {
		out.fields = append(out.fields, fmt.Sprintf("%s = %s", layout[i], describeField(layout[i], f)))
	}
	return out
}

func describeField(dt command.DataType, b []byte) string {
	switch dt.(type) {
	case command.DataS:
		return strconv.Quote(reply.ReadString(b))
	case command.Data8:
		return strconv.Itoa(int(b[0]))
	}
	return formatHex(b)
}

func formatHex(b []byte) string {
	if len(b) == 0 {
		return "-"
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("EV3 Direct Commands"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("id %d, %d byte packets", m.cfg.Command.ID, m.client.MaxPacket()))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation:\n\n")
		for i, op := range opTable {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + formatOp(op)))
			} else {
				b.WriteString("  " + formatOp(op))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter send • q quit"))

	case stateInputArgs:
		op := opTable[m.selected]
		b.WriteString(fmt.Sprintf("Building %s\n\n", opStyle.Render(op.name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			p := op.params[i]
			b.WriteString(typeStyle.Render(fmt.Sprintf("%s [%d, %d]", p.typeStr, p.minimum, p.maximum)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter send • esc back"))

	case stateShowResult:
		op := opTable[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(op.name)))
		if m.sent != "" {
			b.WriteString("> " + hexStyle.Render(m.sent) + "\n")
		}
		if m.received != "" {
			b.WriteString("< " + hexStyle.Render(m.received) + "\n")
		}
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else if len(m.fields) == 0 {
			b.WriteString(resultStyle.Render("ok"))
		} else {
			b.WriteString(resultStyle.Render(strings.Join(m.fields, "\n")))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatOp(op opInfo) string {
	var params []string
	for _, p := range op.params {
		params = append(params, p.name+": "+typeStyle.Render(p.typeStr))
	}
	return opStyle.Render(op.name) + "(" + strings.Join(params, ", ") + ")"
}

func runInteractive(client *session.Client, cfg *config.Config) error {
	p := tea.NewProgram(newInteractiveModel(client, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
