package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/scoring"
)

const (
	buttonLabel = "Проскорить кандидата"
	hint        = "tab/shift+tab поле · ctrl+s оценить · pgup/pgdn прокрутка · esc выход"
)

// Scorer produces a scoring reply for a job description and a CV.
type Scorer interface {
	Score(ctx context.Context, req scoring.Request) (*scoring.Result, error)
}

type focusArea int

const (
	focusJob focusArea = iota
	focusCV
	focusButton
	focusCount
)

// scoredMsg is sent when the scoring call completes.
type scoredMsg struct {
	result *scoring.Result
	err    error
}

type model struct {
	ctx      context.Context
	scorer   Scorer
	provider string

	job     textarea.Model
	cv      textarea.Model
	output  viewport.Model
	spinner spinner.Model

	focus  focusArea
	busy   bool
	result *scoring.Result
	err    error

	width  int
	height int
}

func newModel(ctx context.Context, scorer Scorer, provider string) model {
	job := textarea.New()
	job.Placeholder = "Введите описание вакансии или ссылку на hh.ru"
	job.ShowLineNumbers = false
	job.CharLimit = 0
	job.MaxHeight = 0
	job.Focus()

	cv := textarea.New()
	cv.Placeholder = "Введите резюме или ссылку на hh.ru"
	cv.ShowLineNumbers = false
	cv.CharLimit = 0
	cv.MaxHeight = 0

	m := model{
		ctx:      ctx,
		scorer:   scorer,
		provider: provider,
		job:      job,
		cv:       cv,
		output:   viewport.New(0, 0),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.resize(80, 24)

	return m
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case scoredMsg:
		m.busy = false
		m.result = msg.result
		m.err = msg.err
		m.renderOutput()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m.updateFocused(msg)
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "ctrl+s":
		return m.submit()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	case "enter":
		if m.focus == focusButton {
			return m.submit()
		}
	}

	if m.focus == focusButton {
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusJob:
		m.job, cmd = m.job.Update(msg)
	case focusCV:
		m.cv, cmd = m.cv.Update(msg)
	}
	return m, cmd
}

func (m *model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.job.Blur()
	m.cv.Blur()

	switch f {
	case focusJob:
		return m.job.Focus()
	case focusCV:
		return m.cv.Focus()
	}
	return nil
}

// submit starts a scoring call. Submissions are ignored while one is in flight.
func (m model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	m.busy = true
	m.err = nil
	m.result = nil
	m.renderOutput()

	req := scoring.Request{
		JobDescription: m.job.Value(),
		CV:             m.cv.Value(),
	}

	return m, tea.Batch(m.spinner.Tick, m.scoreCmd(req))
}

func (m model) scoreCmd(req scoring.Request) tea.Cmd {
	ctx, scorer := m.ctx, m.scorer
	return func() tea.Msg {
		res, err := scorer.Score(ctx, req)
		return scoredMsg{result: res, err: err}
	}
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height

	inner := max(width-4, 20)
	inputHeight := max((height-14)/4, 3)
	// title, 2 labels, 3 borders, button, status, hint
	outputHeight := max(height-2*inputHeight-14, 3)

	m.job.SetWidth(inner)
	m.job.SetHeight(inputHeight)
	m.cv.SetWidth(inner)
	m.cv.SetHeight(inputHeight)
	m.output.Width = inner
	m.output.Height = outputHeight
	m.renderOutput()
}

func (m *model) renderOutput() {
	switch {
	case m.err != nil:
		m.output.SetContent(errorStyle.Width(m.output.Width).Render("Ошибка: " + m.err.Error()))
	case m.result != nil:
		m.output.SetContent(lipgloss.NewStyle().Width(m.output.Width).Render(m.result.Reply))
	default:
		m.output.SetContent("")
	}
	m.output.GotoTop()
}

func (m model) status() string {
	switch {
	case m.busy:
		return m.spinner.View() + " Оцениваем кандидата..."
	case m.err != nil:
		return errorStyle.Render("Не удалось получить оценку")
	case m.result != nil:
		return fmt.Sprintf("%s · %s · %s", m.result.Provider, m.result.Model, m.result.Elapsed.Round(100*time.Millisecond))
	default:
		return "Провайдер: " + m.provider
	}
}

func (m model) View() string {
	border := func(active bool) lipgloss.Style {
		if active {
			return activeBorderStyle
		}
		return inactiveBorderStyle
	}

	button := buttonStyle.Render(buttonLabel)
	if m.focus == focusButton {
		button = activeButtonStyle.Render(buttonLabel)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Скоринг кандидата") + "\n")
	b.WriteString(labelStyle.Render("Вакансия") + "\n")
	b.WriteString(border(m.focus == focusJob).Render(m.job.View()) + "\n")
	b.WriteString(labelStyle.Render("Резюме") + "\n")
	b.WriteString(border(m.focus == focusCV).Render(m.cv.View()) + "\n")
	b.WriteString(button + "\n")
	b.WriteString(statusStyle.Render(m.status()) + "\n")
	b.WriteString(inactiveBorderStyle.Render(m.output.View()) + "\n")
	b.WriteString(hintStyle.Render(hint))

	return b.String()
}

// Run starts the full-screen scoring form and blocks until the user quits.
func Run(ctx context.Context, scorer Scorer, provider string) error {
	p := tea.NewProgram(newModel(ctx, scorer, provider), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
