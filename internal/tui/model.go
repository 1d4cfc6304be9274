// Package tui implements the interactive grader.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/redpen/internal/core/annotate"
	"github.com/colonyops/redpen/internal/core/logging"
	"github.com/colonyops/redpen/internal/core/overlay"
	"github.com/colonyops/redpen/internal/grader"
	"github.com/colonyops/redpen/internal/tui/views/graded"
)

// UIState is the top-level screen.
type UIState int

const (
	stateLoading UIState = iota
	stateGraded
	stateFailed
)

// Grader runs one grading attempt.
type Grader interface {
	Grade(ctx context.Context, req grader.Request) (*grader.Result, error)
}

// Options configures the TUI.
type Options struct {
	Path     string
	Grader   Grader
	Geometry overlay.Geometry
	Watcher  *InputWatcher // nil disables live reload
}

// gradedMsg carries the outcome of an attempt.
type gradedMsg struct {
	attempt int
	result  *grader.Result
	err     error
}

// Model is the root Bubble Tea model.
type Model struct {
	opts    Options
	ctx     context.Context
	state   UIState
	spinner spinner.Model
	view    *graded.View
	toasts  *ToastController
	err     error

	attempt  int
	lastRun  time.Duration
	width    int
	height   int
	quitting bool
	log      zerolog.Logger
}

// New creates the root model. ctx bounds every grading attempt.
func New(ctx context.Context, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		opts:    opts,
		ctx:     ctx,
		state:   stateLoading,
		spinner: s,
		toasts:  NewToastController(),
		attempt: 1,
		width:   80,
		height:  24,
		log:     logging.Component("tui"),
	}
}

// Init starts the first attempt and the watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.gradeCmd()}
	if m.opts.Watcher != nil {
		cmds = append(cmds, m.opts.Watcher.Next())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.view != nil {
			m.view.SetSize(m.width, m.height)
		}
		return m, nil

	case gradedMsg:
		return m.handleGraded(msg)

	case inputChangedMsg:
		m.log.Info().Str("path", msg.path).Msg("input changed, grading again")
		var cmd tea.Cmd
		m, cmd = m.regrade()
		toast := m.toasts.Push(ToastInfo, filepath.Base(msg.path)+" changed, grading again")
		return m, tea.Batch(cmd, toast, m.opts.Watcher.Next())

	case toastTickMsg:
		return m, m.toasts.Tick(toastTickInterval)

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg, tea.MouseWheelMsg:
		if m.state == stateGraded && m.view != nil {
			cmd, _ := m.view.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.state == stateGraded && m.view != nil {
		if cmd, handled := m.view.Update(msg); handled {
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "r":
		return m.regrade()
	}
	return m, nil
}

func (m Model) handleGraded(msg gradedMsg) (tea.Model, tea.Cmd) {
	if msg.attempt != m.attempt {
		// A newer attempt superseded this one.
		return m, nil
	}

	if msg.err != nil {
		m.log.Error().Err(msg.err).Int("attempt", msg.attempt).Msg("grading failed")
		m.state = stateFailed
		m.err = msg.err
		return m, nil
	}

	res := msg.result
	m.state = stateGraded
	m.err = nil
	m.lastRun = res.Duration
	m.view = graded.New(graded.Data{
		Title:    title(res.Path),
		Analysis: res.Analysis,
		Segments: res.Segments,
		Dropped:  res.Stats.Dropped + res.Stats.Malformed,
	}, m.opts.Geometry)
	m.view.SetSize(m.width, m.height)

	if msg.attempt > 1 {
		n := len(annotate.AnnotatedSegments(res.Segments))
		return m, m.toasts.Push(ToastInfo, fmt.Sprintf("Graded again: %d marks in %s", n, res.Duration.Round(100*time.Millisecond)))
	}
	return m, nil
}

func (m Model) regrade() (Model, tea.Cmd) {
	m.state = stateLoading
	m.view = nil
	m.attempt++
	return m, tea.Batch(m.spinner.Tick, m.gradeCmd())
}

// gradeCmd runs the current attempt off the event loop.
func (m Model) gradeCmd() tea.Cmd {
	ctx, g, req, attempt := m.ctx, m.opts.Grader, grader.Request{Path: m.opts.Path}, m.attempt
	return func() tea.Msg {
		res, err := g.Grade(ctx, req)
		return gradedMsg{attempt: attempt, result: res, err: err}
	}
}

// State returns the current screen.
func (m Model) State() UIState {
	return m.state
}

// Err returns the error of the last failed attempt.
func (m Model) Err() error {
	return m.err
}

func title(path string) string {
	if path == "" {
		return "pasted text"
	}
	return filepath.Base(path)
}
