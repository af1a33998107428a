package toaster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowHide(t *testing.T) {
	m := New()
	require.False(t, m.Visible())

	m = m.Show("saved", StyleSuccess)
	assert.True(t, m.Visible())
	assert.Equal(t, "saved", m.Message())

	m = m.Hide()
	assert.False(t, m.Visible())
	assert.Empty(t, m.Message())
}

func TestViewStyles(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		emoji string
	}{
		{"success", StyleSuccess, "✅"},
		{"error", StyleError, "❌"},
		{"info", StyleInfo, "ℹ️"},
		{"warn", StyleWarn, "⚠️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New().Show("msg", tt.style)
			out := m.View()
			assert.Contains(t, out, tt.emoji)
			assert.Contains(t, out, "msg")
		})
	}
}

func TestViewHiddenIsEmpty(t *testing.T) {
	assert.Empty(t, New().View())
}

func TestOverlayPassthroughWhenHidden(t *testing.T) {
	bg := "background"
	assert.Equal(t, bg, New().Overlay(bg, 40, 10))
}

func TestOverlayRendersOnBackground(t *testing.T) {
	bg := strings.Repeat(strings.Repeat(".", 40)+"\n", 9) + strings.Repeat(".", 40)
	m := New().Show("done", StyleSuccess)

	out := m.Overlay(bg, 40, 10)
	assert.Contains(t, out, "done")
	assert.Contains(t, out, ".")
}
