package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/redpen/internal/core/styles"
)

const (
	defaultToastTTL   = 4 * time.Second
	defaultMaxToasts  = 3
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 44
)

// ToastLevel selects the toast colour.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastError
)

type toast struct {
	message   string
	level     ToastLevel
	remaining time.Duration
}

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastController manages the lifecycle of short-lived notices such as
// "document changed". It handles push, eviction and TTL countdown.
type ToastController struct {
	toasts  []toast
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Push adds a toast. Past defaultMaxToasts the oldest is evicted. The
// returned command starts the tick timer when it is not already running.
func (c *ToastController) Push(level ToastLevel, message string) tea.Cmd {
	c.toasts = append(c.toasts, toast{
		message:   message,
		level:     level,
		remaining: defaultToastTTL,
	})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
	if c.ticking {
		return nil
	}
	c.ticking = true
	return scheduleToastTick()
}

// Tick decrements the remaining TTL on all toasts by d, removes expired
// ones and returns the next tick while any remain.
func (c *ToastController) Tick(d time.Duration) tea.Cmd {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive

	if len(c.toasts) == 0 {
		c.ticking = false
		return nil
	}
	return scheduleToastTick()
}

// HasToasts returns true if there are any active toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Messages returns the active messages, oldest first.
func (c *ToastController) Messages() []string {
	out := make([]string, len(c.toasts))
	for i, t := range c.toasts {
		out[i] = t.message
	}
	return out
}

// View renders the toast stack, oldest at top.
func (c *ToastController) View() string {
	if len(c.toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(c.toasts))
	for _, t := range c.toasts {
		style, icon := styles.ToastInfoStyle, styles.IconInfo
		if t.level == ToastError {
			style, icon = styles.ToastErrorStyle, styles.IconWarning
		}
		rendered = append(rendered, style.Width(toastWidth).Render(icon+" "+t.message))
	}
	return strings.Join(rendered, "\n")
}

// Overlay composites the toast stack over background in the upper-right
// corner, clear of the footer and the bottom panel.
func (c *ToastController) Overlay(background string, width int) string {
	content := c.View()
	if content == "" {
		return background
	}

	x := max(width-lipgloss.Width(content)-1, 0)
	layer := lipgloss.NewLayer(content).X(x).Y(1).Z(3)
	return lipgloss.NewCompositor(lipgloss.NewLayer(background), layer).Render()
}
