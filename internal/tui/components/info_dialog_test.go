package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/redpen/internal/core/mistake"
	"github.com/colonyops/redpen/pkg/tuitest"
)

func TestInfoDialog_RendersSections(t *testing.T) {
	d := NewInfoDialog(
		"Report card",
		[]InfoSection{
			{Title: "Summary", Text: "Decent resume with a few slips."},
			{
				Title: "Strengths",
				Items: []InfoItem{
					{Label: "Clear layout", Status: InfoStatusPass},
				},
			},
			{
				Title: "Corrections",
				Items: []InfoItem{
					{Label: "Spelling", Value: "3", Status: InfoStatusWarn},
				},
			},
		},
		"esc close",
		120,
		40,
	)

	out := tuitest.StripANSI(d.Overlay("bg", 120, 40))
	assert.Contains(t, out, "Report card")
	assert.Contains(t, out, "Decent resume")
	assert.Contains(t, out, "Clear layout")
	assert.Contains(t, out, "Spelling  3")
	assert.Contains(t, out, "✔")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "esc close")
}

func TestInfoDialog_ScrollsLongContent(t *testing.T) {
	items := make([]InfoItem, 0, 50)
	for range 50 {
		items = append(items, InfoItem{Label: "item", Value: "value"})
	}

	d := NewInfoDialog("Long", []InfoSection{{Title: "Many", Items: items}}, "help", 70, 20)

	before := d.View()
	assert.Contains(t, tuitest.StripANSI(before), "(0%)")

	d.ScrollDown()
	d.ScrollDown()
	assert.NotEqual(t, before, d.View())

	d.ScrollUp()
	d.ScrollUp()
	assert.Equal(t, before, d.View())
}

func TestHelpDialog_View(t *testing.T) {
	h := NewHelpDialog("Keys", []HelpDialogSection{
		{Title: "Navigation", Entries: []HelpEntry{{Key: "tab", Desc: "next mistake"}}},
		{Title: "Overlay", Entries: []HelpEntry{{Key: "esc", Desc: "close"}}},
	})

	out := tuitest.StripANSI(h.Overlay(strings.Repeat("x\n", 30), 80, 30))
	assert.Contains(t, out, "Keys")
	assert.Contains(t, out, "Navigation")
	assert.Contains(t, out, "next mistake")
	assert.Contains(t, out, "esc/? close")
}

func TestMistakeCard(t *testing.T) {
	rec := &mistake.Record{
		Original:    "Responsible for",
		Correction:  "Led",
		Explanation: "Start bullets with an action verb.",
		Category:    mistake.CategoryWeakVerb,
	}
	c := MistakeCard{Record: rec, Index: 2, Total: 5}

	card := tuitest.StripANSI(c.Card(40, 12))
	assert.Contains(t, card, "Weak Verb")
	assert.Contains(t, card, "2/5")
	assert.Contains(t, card, "Responsible for")
	assert.Contains(t, card, "Led")
	assert.Contains(t, card, "action verb")
	assert.LessOrEqual(t, len(strings.Split(card, "\n")), 12)

	panel := tuitest.StripANSI(c.Panel(60, 10))
	assert.Contains(t, panel, "Correction")
	assert.Contains(t, panel, "tab next")

	assert.Empty(t, MistakeCard{}.body(10, "x"))
}

func TestScoreStamp(t *testing.T) {
	out := tuitest.StripANSI(ScoreStamp("B+", 81))
	assert.Contains(t, out, "B+")
	assert.Contains(t, out, "81/100")

	assert.Empty(t, ScoreStamp("", 0))
	assert.Contains(t, tuitest.StripANSI(ScoreStamp("", 40)), "40/100")
}
