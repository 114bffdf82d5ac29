// Command console is the theater-owner terminal UI: it shows the owner's
// theater and scheduled shows and lets them schedule new ones against the
// movie catalog.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/cinepass/movie-booking/internal/console"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type appState int

const (
	stateLoading appState = iota
	stateReady
)

const (
	fieldMovie = iota
	fieldTime
	fieldPrice
	fieldSeats
	fieldCount
)

type loadedMsg struct{ err error }
type moviesMsg struct{}
type submittedMsg struct{ err error }

type appModel struct {
	con   *console.Console
	state appState

	spinner spinner.Model
	inputs  [fieldCount]textinput.Model
	focus   int

	movieIdx int // index into the catalog; -1 when none selected
}

func newModel(con *console.Console) appModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := appModel{con: con, state: stateLoading, spinner: sp, movieIdx: -1}
	placeholders := [fieldCount]string{"movie", "2024-06-01T19:00", "12.50", "100"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 32
		m.inputs[i] = ti
	}
	m.inputs[fieldMovie].Blur()
	m.setFocus(fieldMovie)
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(), m.loadMoviesCmd())
}

func (m appModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.con.Load(context.Background())}
	}
}

func (m appModel) loadMoviesCmd() tea.Cmd {
	return func() tea.Msg {
		m.con.LoadMovies(context.Background())
		return moviesMsg{}
	}
}

func (m appModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		return submittedMsg{err: m.con.Submit(context.Background())}
	}
}

// syncDraft copies the current inputs into the console's draft record.
func (m *appModel) syncDraft() {
	movieID := ""
	if movies := m.con.Movies(); m.movieIdx >= 0 && m.movieIdx < len(movies) {
		movieID = strconv.FormatUint(movies[m.movieIdx].ID, 10)
	}
	m.con.SetDraft(console.Draft{
		MovieID:  movieID,
		ShowTime: m.inputs[fieldTime].Value(),
		Price:    m.inputs[fieldPrice].Value(),
		Seats:    m.inputs[fieldSeats].Value(),
	})
}

// clearInputs resets the form after the console cleared its draft.
func (m *appModel) clearInputs() {
	m.movieIdx = -1
	for i := fieldTime; i < fieldCount; i++ {
		m.inputs[i].SetValue("")
	}
}

func (m *appModel) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx && i != fieldMovie {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		switch key {
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			if m.con.Submitting() {
				return m, nil // button disabled while in flight
			}
			m.syncDraft()
			return m, m.submitCmd()
		}
		// Keys below only act on the movie selector row; elsewhere they are
		// ordinary characters for the focused input.
		if m.focus == fieldMovie {
			switch key {
			case "q":
				return m, tea.Quit
			case "r":
				m.state = stateLoading
				return m, tea.Batch(m.spinner.Tick, m.loadCmd(), m.loadMoviesCmd())
			case "left", "right":
				movies := m.con.Movies()
				if len(movies) > 0 {
					if key == "right" {
						m.movieIdx = (m.movieIdx + 1) % len(movies)
					} else if m.movieIdx <= 0 {
						m.movieIdx = len(movies) - 1
					} else {
						m.movieIdx--
					}
				}
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd

	case loadedMsg:
		m.state = stateReady
		return m, nil

	case moviesMsg:
		return m, nil

	case submittedMsg:
		if msg.err == nil && m.con.FormError() == "" {
			m.clearInputs()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Theater Owner Console") + "\n\n")

	if m.state == stateLoading || m.con.Loading() {
		b.WriteString(m.spinner.View() + " loading your theater...\n")
		return b.String()
	}

	if msg := m.con.PageError(); msg != "" {
		b.WriteString(errorStyle.Render("! "+msg) + "\n\n")
	}

	if t := m.con.Theater(); t != nil {
		b.WriteString(fmt.Sprintf("%s %s — %s\n", labelStyle.Render("Theater:"), t.Name, t.Location))
		if len(t.Amenities) > 0 {
			b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Amenities:"), strings.Join(t.Amenities, ", ")))
		}
	} else {
		b.WriteString(labelStyle.Render("No theater is assigned to this account yet.") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderForm())
	b.WriteString("\n")
	b.WriteString(m.renderShows())

	b.WriteString(helpStyle.Render("\ntab: next field · left/right: pick movie · enter: add show · r: reload · ctrl+c: quit\n"))
	return b.String()
}

func (m appModel) renderForm() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Schedule a show") + "\n")

	movieLabel := "(none — catalog unavailable or not picked)"
	if movies := m.con.Movies(); m.movieIdx >= 0 && m.movieIdx < len(movies) {
		mv := movies[m.movieIdx]
		movieLabel = fmt.Sprintf("%s (%s, %d min)", mv.Title, mv.Genre, mv.DurationMin)
	}
	cursor := func(i int) string {
		if i == m.focus {
			return "> "
		}
		return "  "
	}
	b.WriteString(fmt.Sprintf("%s%s %s\n", cursor(fieldMovie), labelStyle.Render("Movie:"), movieLabel))
	b.WriteString(fmt.Sprintf("%s%s %s\n", cursor(fieldTime), labelStyle.Render("Start:"), m.inputs[fieldTime].View()))
	b.WriteString(fmt.Sprintf("%s%s %s\n", cursor(fieldPrice), labelStyle.Render("Price:"), m.inputs[fieldPrice].View()))
	b.WriteString(fmt.Sprintf("%s%s %s\n", cursor(fieldSeats), labelStyle.Render("Seats:"), m.inputs[fieldSeats].View()))

	if m.con.Submitting() {
		b.WriteString(m.spinner.View() + " submitting...\n")
	} else if msg := m.con.FormError(); msg != "" {
		b.WriteString(errorStyle.Render("! "+msg) + "\n")
	}
	return b.String()
}

func (m appModel) renderShows() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Current shows") + "\n")

	shows := m.con.Shows()
	if len(shows) == 0 {
		b.WriteString(labelStyle.Render("no shows scheduled") + "\n")
		return b.String()
	}
	for _, s := range shows {
		title, genre := "?", "?"
		if s.Movie != nil {
			title, genre = s.Movie.Title, s.Movie.Genre
		}
		b.WriteString(fmt.Sprintf("%s  %-24s %-12s %8.2f  %5d seats\n",
			okStyle.Render(s.StartTime.Format("2006-01-02 15:04")), title, genre, s.BasePrice, s.TotalSeats))
	}
	return b.String()
}

func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	token := os.Getenv("API_TOKEN")
	if token == "" {
		log.Fatal("API_TOKEN is required (obtain one via POST /auth/login)")
	}

	con := console.New(console.NewClient(baseURL, token, nil))
	if _, err := tea.NewProgram(newModel(con)).Run(); err != nil {
		log.Fatal(err)
	}
}
