package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ledwall/pkg/catalog"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PickModel - Interactive module and processor selection
// =============================================================================

type pickStage int

const (
	stageModule pickStage = iota
	stageProcessor
	stageDone
)

// FitFunc reports how many units of p drive the wall when built from m.
type FitFunc func(m catalog.Module, p catalog.Processor) int

// PickModel is the bubbletea model for choosing a module, then a processor.
type PickModel struct {
	Modules    []catalog.Module
	Processors []catalog.Processor
	Fit        FitFunc

	Module    *catalog.Module
	Processor *catalog.Processor

	stage  pickStage
	Cursor int
	Height int
	Offset int
}

// NewPickModel creates a picker over the given catalog entries. fit may be
// nil, in which case the processor list has no "units" column.
func NewPickModel(modules []catalog.Module, processors []catalog.Processor, fit FitFunc) PickModel {
	return PickModel{
		Modules:    modules,
		Processors: processors,
		Fit:        fit,
		Height:     12,
	}
}

// Done reports whether both a module and a processor were chosen.
func (m PickModel) Done() bool {
	return m.stage == stageDone
}

func (m PickModel) Init() tea.Cmd {
	return nil
}

func (m PickModel) items() int {
	if m.stage == stageModule {
		return len(m.Modules)
	}
	return len(m.Processors)
}

func (m PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if m.stage == stageProcessor {
				m.stage = stageModule
				m.Module = nil
				m.Cursor, m.Offset = 0, 0
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.items()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if m.items() == 0 {
				return m, nil
			}
			if m.stage == stageModule {
				mod := m.Modules[m.Cursor]
				m.Module = &mod
				m.stage = stageProcessor
				m.Cursor, m.Offset = 0, 0
				return m, nil
			}
			proc := m.Processors[m.Cursor]
			m.Processor = &proc
			m.stage = stageDone
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-6)
	}
	return m, nil
}

func (m PickModel) View() string {
	if m.stage == stageDone {
		return ""
	}

	var b strings.Builder
	var (
		title   string
		headers []string
		rows    [][]string
	)
	end := min(m.Offset+m.Height, m.items())

	if m.stage == stageModule {
		title = "Select Module"
		headers = []string{"", "Module", "Pixels", "Size (cm)", "kg", "W/m²"}
		for i := m.Offset; i < end; i++ {
			mod := m.Modules[i]
			rows = append(rows, []string{
				cursorMark(i == m.Cursor),
				mod.Name,
				fmt.Sprintf("%d×%d", mod.PixelsW, mod.PixelsH),
				fmt.Sprintf("%g×%g", mod.WidthCm, mod.HeightCm),
				strconv.FormatFloat(mod.WeightKg, 'f', -1, 64),
				strconv.FormatFloat(mod.PowerWm2, 'f', -1, 64),
			})
		}
	} else {
		title = "Select Processor for " + m.Module.Name
		headers = []string{"", "Processor", "Outputs", "Pixels", "Units"}
		for i := m.Offset; i < end; i++ {
			p := m.Processors[i]
			units := "—"
			if m.Fit != nil {
				units = strconv.Itoa(m.Fit(*m.Module, p))
			}
			rows = append(rows, []string{
				cursorMark(i == m.Cursor),
				p.DisplayName(),
				strconv.Itoa(p.Outputs),
				strconv.Itoa(p.TotalPixels),
				units,
			})
		}
	}

	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc back  q quit"))
	b.WriteString("\n\n")

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if m.stage == stageProcessor && col == len(headers)-1 && rows[row][col] == "1" {
				return StyleSuccess
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.items())))

	return b.String()
}

func cursorMark(current bool) string {
	if current {
		return "▸"
	}
	return " "
}
