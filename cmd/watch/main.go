// Command watch is a thin terminal client that polls the roadwatch API for
// one area and renders the current risk picture. All business logic lives
// server-side; this only displays.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"roadwatch/types"
)

const pollInterval = 60 * time.Second

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))

	levelColors = map[types.RiskLevel]lipgloss.Color{
		types.RiskLow:      lipgloss.Color("40"),
		types.RiskModerate: lipgloss.Color("220"),
		types.RiskHigh:     lipgloss.Color("208"),
		types.RiskCritical: lipgloss.Color("196"),
	}
)

// intelResponse mirrors the API's consumer-facing shape.
type intelResponse struct {
	*types.IntelPayload
	Error string `json:"error,omitempty"`
}

type intelMsg struct {
	payload *intelResponse
	err     error
}

type tickMsg time.Time

type intelClient struct {
	baseURL string
	client  *http.Client
	name    string
	state   string
}

func (c *intelClient) fetch() (*intelResponse, error) {
	body, err := json.Marshal(map[string]string{"name": c.name, "state": c.state})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Post(c.baseURL+"/api/intel/area", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to reach roadwatch: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var parsed intelResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, parsed.Error)
	}
	return &parsed, nil
}

type model struct {
	client    *intelClient
	payload   *intelResponse
	err       error
	fetchedAt time.Time
	loading   bool
}

func (m model) Init() tea.Cmd {
	return tea.Batch(fetchIntel(m.client), tick())
}

func fetchIntel(c *intelClient) tea.Cmd {
	return func() tea.Msg {
		payload, err := c.fetch()
		return intelMsg{payload: payload, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "R":
			m.loading = true
			return m, fetchIntel(m.client)
		}
	case intelMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.payload = msg.payload
			m.fetchedAt = time.Now()
		}
		return m, nil
	case tickMsg:
		m.loading = true
		return m, tea.Batch(fetchIntel(m.client), tick())
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("roadwatch — %s, %s", m.client.name, m.client.state)))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.payload == nil || m.loading && m.payload == nil:
		b.WriteString(statusStyle.Render("Fetching intelligence..."))
	default:
		b.WriteString(m.renderPayload())
	}

	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("r: refresh now  q: quit"))
	if !m.fetchedAt.IsZero() {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  (updated %s)", m.fetchedAt.Format("15:04:05"))))
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) renderPayload() string {
	p := m.payload
	var b strings.Builder

	if p.RiskScore != nil {
		levelStyle := lipgloss.NewStyle().Bold(true).Foreground(levelColors[p.RiskScore.Level])
		b.WriteString(fmt.Sprintf("Risk: %s  score %.1f  confidence %s\n",
			levelStyle.Render(strings.ToUpper(string(p.RiskScore.Level))),
			p.RiskScore.Score, p.RiskScore.Confidence))
	}
	if p.DynamicRisk != nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Trend: %s (baseline %s, %dd window)\n",
			p.DynamicRisk.Trend, p.DynamicRisk.BaselineLevel, p.DynamicRisk.TimeWindowDays)))
	}

	b.WriteString(fmt.Sprintf("\nIncidents: %d", len(p.Incidents)))
	if p.FallbackToRaw {
		b.WriteString(highlightStyle.Render(fmt.Sprintf("  (classifier unavailable, %d raw articles)", len(p.RawArticles))))
	}
	b.WriteString("\n")

	for i, inc := range p.Incidents {
		if i >= 8 {
			b.WriteString(infoStyle.Render(fmt.Sprintf("  ... and %d more\n", len(p.Incidents)-i)))
			break
		}
		zone := ""
		if inc.Relevance != nil {
			zone = string(inc.Relevance.Zone)
		}
		b.WriteString(fmt.Sprintf("  %-11s %-10s %s\n", inc.Type, zone, inc.ExtractedLocation))
	}

	if p.Briefing != nil {
		b.WriteString("\n")
		b.WriteString(highlightStyle.Render("Bottom line: "))
		b.WriteString(p.Briefing.BottomLine)
		b.WriteString("\n")
		if p.Briefing.ForTravelers != nil {
			for _, tip := range p.Briefing.ForTravelers.Tips {
				b.WriteString(infoStyle.Render("  • " + tip + "\n"))
			}
		}
	}
	return b.String()
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "roadwatch API base URL")
	name := flag.String("area", "Gwarinpa", "area name to watch")
	state := flag.String("state", "FCT", "state of the area")
	flag.Parse()

	client := &intelClient{
		baseURL: strings.TrimRight(*baseURL, "/"),
		client:  &http.Client{Timeout: 90 * time.Second},
		name:    *name,
		state:   *state,
	}

	if _, err := tea.NewProgram(model{client: client, loading: true}).Run(); err != nil {
		log.Fatalf("watch error: %v", err)
	}
}
