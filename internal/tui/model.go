package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"visearch/internal/domain"
)

// QueryPort is the TUI-facing subset of the retrieval service.
type QueryPort interface {
	Query(ctx context.Context, imagePath string) (domain.QueryResult, error)
}

// Model is the Bubble Tea model for the interactive query session.
type Model struct {
	service  QueryPort
	input    textinput.Model
	viewport viewport.Model
	result   *domain.QueryResult
	status   string
	cursor   int
	ready    bool
}

// New creates a new TUI model instance.
func New(service QueryPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Image path, then Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, status: "Ready. Enter an image path to search the catalog."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(m.input.Value())
			if path != "" {
				res, err := m.service.Query(context.Background(), path)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.result = nil
				} else {
					m.status = fmt.Sprintf("Matches for %s", path)
					m.result = &res
					m.cursor = 0
				}
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		case "down":
			if n := m.rows(); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		case "up":
			if n := m.rows(); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("visearch — visual catalog search")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) rows() int {
	if m.result == nil {
		return 0
	}
	return max(len(m.result.CosineTopK), len(m.result.EuclideanTopK))
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "No matches yet."
	}
	cos := renderMetric("Cosine similarity", m.result.CosineTopK, m.cursor)
	euc := renderMetric("Euclidean distance", m.result.EuclideanTopK, m.cursor)
	return lipgloss.JoinHorizontal(lipgloss.Top, cos, "   ", euc)
}

func renderMetric(title string, matches []domain.Match, cursor int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(matches) == 0 {
		b.WriteString("(no ranking)")
		return b.String()
	}
	for i, mt := range matches {
		line := fmt.Sprintf("%d. %-20s %.4f", i+1, mt.Name, mt.Score)
		if i == cursor {
			line = highlightStyle.Render(line) + "\n   " +
				fmt.Sprintf("id %d · $%.2f · %d in stock · %s", mt.ProductID, mt.Price, mt.Amount, mt.ImagePath)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
