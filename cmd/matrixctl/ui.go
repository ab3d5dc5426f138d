package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"tagmatrix/internal/delivery/dto"
)

// UI styling constants
var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#06B6D4") // Cyan
	accentColor    = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	textColor      = lipgloss.Color("#F8FAFC") // Light gray
	mutedColor     = lipgloss.Color("#94A3B8") // Muted gray

	// Base styles
	baseStyle = lipgloss.NewStyle().
			Foreground(textColor)

	basePanelStyle = baseStyle.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			Margin(1, 0)

	headerStyle = baseStyle.
			Foreground(primaryColor).
			Bold(true).
			Align(lipgloss.Center)

	cellStyle = baseStyle.
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(mutedColor)

	axisLabelStyle = baseStyle.
			Foreground(secondaryColor).
			Bold(true)

	activeStyle = baseStyle.
			Foreground(accentColor).
			Bold(true)

	inactiveStyle = baseStyle.
			Foreground(mutedColor)
)

// UI manages the terminal display of the current session's tagsInPlay and
// its last computed matrix.
type UI struct {
	sessionID   string
	connected   bool
	result      *dto.QueryResult
	lastCommand string
	lastResult  string
	termWidth   int
	termHeight  int
}

// NewUI creates a new UI instance.
func NewUI() *UI {
	ui := &UI{}
	ui.updateTerminalSize()
	return ui
}

func (ui *UI) updateTerminalSize() {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height, err = term.GetSize(int(os.Stderr.Fd()))
	}
	if err != nil {
		width, height, err = term.GetSize(int(os.Stdin.Fd()))
	}

	if err != nil {
		if cols := os.Getenv("COLUMNS"); cols != "" {
			if w, parseErr := strconv.Atoi(cols); parseErr == nil {
				ui.termWidth = w
			} else {
				ui.termWidth = 80
			}
		} else {
			ui.termWidth = 80
		}

		if lines := os.Getenv("LINES"); lines != "" {
			if h, parseErr := strconv.Atoi(lines); parseErr == nil {
				ui.termHeight = h
			} else {
				ui.termHeight = 24
			}
		} else {
			ui.termHeight = 24
		}
	} else {
		ui.termWidth = width
		ui.termHeight = height
	}

	if ui.termWidth < 40 {
		ui.termWidth = 40
	}
}

// SetSession updates the connected session id and connection state.
func (ui *UI) SetSession(sessionID string, connected bool) {
	ui.sessionID = sessionID
	ui.connected = connected
}

// SetResult stores the latest query result for rendering.
func (ui *UI) SetResult(result *dto.QueryResult) {
	ui.result = result
}

// SetLastCommand records the last command and its textual result.
func (ui *UI) SetLastCommand(command, result string) {
	ui.lastCommand = command
	ui.lastResult = result
}

// RenderStatus renders the session header panel.
func (ui *UI) RenderStatus() string {
	if !ui.connected {
		return ui.renderDisconnectedStatus()
	}

	title := headerStyle.Render("🗂  Session")
	var lines []string
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Session: %s", activeStyle.Render(ui.sessionID)))
	if ui.result != nil {
		lines = append(lines, fmt.Sprintf("Cards in view: %s", activeStyle.Render(fmt.Sprintf("%d", ui.result.Total))))
		cacheState := "miss"
		if ui.result.CacheHit {
			cacheState = "hit"
		}
		lines = append(lines, fmt.Sprintf("Cache: %s", inactiveStyle.Render(cacheState)))
	}

	content := title + "\n" + strings.Join(lines, "\n")
	return basePanelStyle.Render(content)
}

func (ui *UI) renderDisconnectedStatus() string {
	content := headerStyle.Render("🔌 Disconnected") + "\n" +
		inactiveStyle.Render("Connect to a server to start a session")

	return basePanelStyle.
		BorderForeground(warningColor).
		Render(content)
}

// RenderMatrix renders the current partition matrix as a grid of bordered
// cells, row and column axes labeled with their tag names.
func (ui *UI) RenderMatrix() string {
	if ui.result == nil {
		return inactiveStyle.Render("no matrix yet — run 'query' to evaluate the current tagsInPlay")
	}

	rowLabels := axisLabels(ui.result.Axes.Row, "(all)")
	colLabels := axisLabels(ui.result.Axes.Col, "(all)")

	headerCells := []string{cellStyle.Render(" ")}
	for _, c := range colLabels {
		headerCells = append(headerCells, cellStyle.Render(axisLabelStyle.Render(c)))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)}

	for i, r := range rowLabels {
		rowCells := []string{cellStyle.Render(axisLabelStyle.Render(r))}
		for j := range colLabels {
			ids := []string{}
			if i < len(ui.result.Matrix) && j < len(ui.result.Matrix[i]) {
				ids = ui.result.Matrix[i][j]
			}
			rowCells = append(rowCells, cellStyle.Render(strings.Join(ids, ",")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCells...))
	}

	return strings.Join(rows, "\n")
}

func axisLabels(labels []string, emptyLabel string) []string {
	if len(labels) == 0 {
		return []string{emptyLabel}
	}
	return labels
}

// RenderFullDisplay renders the status panel, the matrix, and the last
// command's output.
func (ui *UI) RenderFullDisplay() string {
	ui.updateTerminalSize()

	var parts []string
	parts = append(parts, ui.RenderStatus())
	parts = append(parts, ui.RenderMatrix())

	separator := strings.Repeat("─", ui.termWidth)
	parts = append(parts, baseStyle.Foreground(mutedColor).Render(separator))

	if ui.lastCommand != "" || ui.lastResult != "" {
		parts = append(parts, ui.renderCommandArea())
	}

	return strings.Join(parts, "\n")
}

func (ui *UI) renderCommandArea() string {
	var lines []string
	if ui.lastCommand != "" {
		lines = append(lines, baseStyle.Foreground(primaryColor).Render("matrixctl> ")+baseStyle.Render(ui.lastCommand))
	}
	if ui.lastResult != "" {
		lines = append(lines, ui.lastResult)
	}
	return strings.Join(lines, "\n")
}

// ClearScreen clears the terminal screen.
func (ui *UI) ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// RenderPrompt renders the command prompt.
func (ui *UI) RenderPrompt() string {
	return baseStyle.Foreground(primaryColor).Render("matrixctl> ")
}

// RenderMessage renders a one-line status message with an icon matching
// its severity.
func (ui *UI) RenderMessage(msgType, message string) string {
	var style lipgloss.Style
	var icon string

	switch msgType {
	case "success":
		style = baseStyle.Foreground(accentColor)
		icon = "✅"
	case "error":
		style = baseStyle.Foreground(errorColor)
		icon = "❌"
	case "warning":
		style = baseStyle.Foreground(warningColor)
		icon = "⚠️"
	case "info":
		style = baseStyle.Foreground(secondaryColor)
		icon = "ℹ️"
	default:
		style = baseStyle
		icon = "📨"
	}

	return style.Render(fmt.Sprintf("%s %s", icon, message))
}
