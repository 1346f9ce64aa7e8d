// Package dashboard is a terminal dashboard for the copilot: a table of
// classified tickets, a text area for an interactive ticket, and panels
// showing the internal analysis and the final response.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/poiesic/triage/answer"
	"github.com/poiesic/triage/classify"
	"github.com/poiesic/triage/core"
)

// DefaultAnswerTimeout bounds one answer request.
const DefaultAnswerTimeout = time.Minute

// Answerer composes answers and reports each step to a monitor.
type Answerer interface {
	AnswerWithMonitor(ctx context.Context, query string, monitor answer.Monitor) core.Answer
}

type focus int

const (
	focusTable focus = iota
	focusInput
)

// answerMsg carries a finished composition back into Update.
type answerMsg struct {
	trace *answer.Trace
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	answerer Answerer
	results  []classify.Result
	table    table.Model
	input    textarea.Model
	focus    focus
	trace    *answer.Trace
	pending  bool
	status   string
	width    int
	ready    bool
}

// New creates a dashboard over pre-classified tickets.
func New(answerer Answerer, results []classify.Result) Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithRows(rows(results)),
		table.WithFocused(true),
		table.WithHeight(min(len(results), 10)+3),
	)
	t.SetStyles(tableStyles())

	ta := textarea.New()
	ta.Placeholder = "Paste a ticket or question here"
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.CharLimit = 0
	if len(results) > 0 {
		ta.SetValue(results[0].Ticket.Body)
	}

	return Model{
		answerer: answerer,
		results:  results,
		table:    t,
		input:    ta,
		focus:    focusTable,
		status:   fmt.Sprintf("Loaded %d tickets. enter: answer selected ticket, tab: switch to input, ctrl+s: submit, esc: quit", len(results)),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = max(40, msg.Width)
		m.table.SetColumns(columns(m.width))
		m.table.SetWidth(m.width)
		m.input.SetWidth(m.width - panelStyle.GetHorizontalFrameSize())
		return m, nil

	case answerMsg:
		m.pending = false
		m.trace = msg.trace
		m.status = fmt.Sprintf("Answered in topic %q", msg.trace.Classification.Topic)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m = m.toggleFocus()
			return m, nil
		case "ctrl+s":
			return m.submit(m.input.Value())
		}

		if m.focus == focusTable {
			switch msg.String() {
			case "esc", "q":
				return m, tea.Quit
			case "enter":
				ticket, ok := m.selected()
				if !ok {
					return m, nil
				}
				m.input.SetValue(ticket.Body)
				return m.submit(ticket.Text())
			}
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

		if msg.String() == "esc" {
			m = m.toggleFocus()
			return m, nil
		}
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) toggleFocus() Model {
	if m.focus == focusTable {
		m.focus = focusInput
		m.table.Blur()
		m.input.Focus()
	} else {
		m.focus = focusTable
		m.input.Blur()
		m.table.Focus()
	}
	return m
}

func (m Model) selected() (core.Ticket, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.results) {
		return core.Ticket{}, false
	}
	return m.results[i].Ticket, true
}

func (m Model) submit(query string) (tea.Model, tea.Cmd) {
	query = strings.TrimSpace(query)
	if query == "" {
		m.status = "Nothing to answer."
		return m, nil
	}
	if m.pending {
		return m, nil
	}
	m.pending = true
	m.status = "Thinking..."
	return m, answerCmd(m.answerer, query)
}

func answerCmd(answerer Answerer, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultAnswerTimeout)
		defer cancel()
		trace := &answer.Trace{}
		answerer.AnswerWithMonitor(ctx, query, trace)
		return answerMsg{trace: trace}
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Customer Support Copilot"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Interactive ticket / question"))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.input.View()))
	b.WriteString("\n")

	if m.trace != nil {
		width := m.width - panelStyle.GetHorizontalFrameSize()
		b.WriteString(headingStyle.Render("Internal analysis"))
		b.WriteString("\n")
		b.WriteString(panelStyle.Width(width).Render(analysis(m.trace)))
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Final response"))
		b.WriteString("\n")
		b.WriteString(panelStyle.Width(width).Render(response(m.trace.Answer)))
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(m.status))
	return b.String()
}

func analysis(trace *answer.Trace) string {
	data, err := json.MarshalIndent(trace.Classification, "", "  ")
	if err != nil {
		data = []byte(err.Error())
	}

	var b strings.Builder
	b.Write(data)
	switch {
	case trace.RetrievalErr != nil:
		fmt.Fprintf(&b, "\nretrieval error: %v", trace.RetrievalErr)
	case trace.Retrieved != nil:
		fmt.Fprintf(&b, "\nretrieved %d documents", len(trace.Retrieved))
		for _, result := range trace.Retrieved {
			fmt.Fprintf(&b, "\n  %.3f  %s", result.Score, result.Document.Source)
		}
	default:
		b.WriteString("\nanswered without retrieval")
	}
	return b.String()
}

func response(reply core.Answer) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Answer: "))
	b.WriteString(reply.Text)
	if reply.Source != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Cited source: "))
		b.WriteString(reply.Source)
	}
	return b.String()
}

func rows(results []classify.Result) []table.Row {
	out := make([]table.Row, len(results))
	for i, result := range results {
		c := result.Classification
		out[i] = table.Row{
			result.Ticket.ID,
			result.Ticket.Subject,
			string(c.Topic),
			string(c.Sentiment),
			string(c.Priority),
			fmt.Sprintf("%.2f", c.Confidence),
		}
	}
	return out
}

// columns sizes the subject column to fill width.
func columns(width int) []table.Column {
	fixed := []table.Column{
		{Title: "ID", Width: 12},
		{Title: "Subject", Width: 0},
		{Title: "Topic", Width: 15},
		{Title: "Sentiment", Width: 11},
		{Title: "Priority", Width: 8},
		{Title: "Conf", Width: 5},
	}
	used := 0
	for _, c := range fixed {
		used += c.Width + 2
	}
	fixed[1].Width = max(10, width-used-2)
	return fixed
}
