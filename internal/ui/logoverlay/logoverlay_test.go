package logoverlay

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/log"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	m.Run()
}

func event(line string) log.LogEvent {
	return log.LogEvent{Payload: line + "\n"}
}

func newTestModel() Model {
	m := New()
	m.SetSize(100, 40)
	return m
}

func TestEventsAccumulateWhileHidden(t *testing.T) {
	m := newTestModel()

	m, _ = m.Update(event("10:00:00 [INFO] [db] opened database"))
	require.False(t, m.Visible())

	m.Toggle()
	require.True(t, m.Visible())
	assert.Contains(t, m.View(), "opened database")
}

func TestLevelFilter(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(event("10:00:00 [DEBUG] [ui] noisy detail"))
	m, _ = m.Update(event("10:00:01 [ERROR] [db] save failed"))
	m.Toggle()

	require.Contains(t, m.View(), "noisy detail")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	out := m.View()
	assert.NotContains(t, out, "noisy detail")
	assert.Contains(t, out, "save failed")
}

func TestClearEmptiesBuffer(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(event("10:00:00 [INFO] [db] something"))
	m.Toggle()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	assert.Contains(t, m.View(), "No logs to display")
}

func TestBufferCapped(t *testing.T) {
	m := newTestModel()
	for i := 0; i < maxEntries+50; i++ {
		m, _ = m.Update(event(fmt.Sprintf("10:00:00 [INFO] [ui] line %d", i)))
	}

	assert.Len(t, m.entries, maxEntries)
	assert.Contains(t, m.entries[0], "line 50")
}

func TestCloseEmitsMsg(t *testing.T) {
	m := newTestModel()
	m.Toggle()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.NotNil(t, cmd)
	assert.IsType(t, CloseMsg{}, cmd())
	assert.False(t, m.Visible())
}

func TestOverlayPassthroughWhenHidden(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, "background", m.Overlay("background"))
}
