package toggle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		sel    Selection
		marker Marker
		want   Action
	}{
		{
			name:   "empty selection no context inserts",
			sel:    Selection{},
			marker: Bold,
			want:   ActionInsert,
		},
		{
			name:   "plain selection wraps",
			sel:    Selection{Text: "hello"},
			marker: Bold,
			want:   ActionWrap,
		},
		{
			name:   "selection including markers unwraps itself",
			sel:    Selection{Text: "**hello**"},
			marker: Bold,
			want:   ActionUnwrapSelection,
		},
		{
			name:   "markers outside selection unwrap surrounding",
			sel:    Selection{Text: "hello", Before: "**", After: "**"},
			marker: Bold,
			want:   ActionUnwrapSurrounding,
		},
		{
			name:   "selection enclosing markers beats surrounding markers",
			sel:    Selection{Text: "**hello**", Before: "**", After: "**"},
			marker: Bold,
			want:   ActionUnwrapSelection,
		},
		{
			name:   "bare marker pair is an empty unwrap",
			sel:    Selection{Text: "**"},
			marker: Bold,
			want:   ActionUnwrapSelection,
		},
		{
			name:   "partial marker selection wraps",
			sel:    Selection{Text: "*"},
			marker: Bold,
			want:   ActionWrap,
		},
		{
			name:   "bold selection toggled as italic unwraps literally",
			sel:    Selection{Text: "**hello**"},
			marker: Italic,
			want:   ActionUnwrapSelection,
		},
		{
			name:   "cursor inside bold run does not unwrap italic",
			sel:    Selection{Before: "*", After: "*", OuterBefore: "*", OuterAfter: "*"},
			marker: Italic,
			want:   ActionInsert,
		},
		{
			name:   "outer run on one side only still falls through",
			sel:    Selection{Before: "*", After: "*", OuterBefore: "*"},
			marker: Italic,
			want:   ActionInsert,
		},
		{
			name:   "non-marker outer chars keep surrounding unwrap",
			sel:    Selection{Text: "hi", Before: "*", After: "*", OuterBefore: "a", OuterAfter: "b"},
			marker: Italic,
			want:   ActionUnwrapSurrounding,
		},
		{
			name:   "empty outer probes keep surrounding unwrap",
			sel:    Selection{Text: "hi", Before: "~~", After: "~~"},
			marker: Strike,
			want:   ActionUnwrapSurrounding,
		},
		{
			name:   "mismatched surrounding falls through to wrap",
			sel:    Selection{Text: "hello", Before: "*", After: "**"},
			marker: Bold,
			want:   ActionWrap,
		},
		{
			name:   "prefix only does not count as enclosed",
			sel:    Selection{Text: "**hello"},
			marker: Bold,
			want:   ActionWrap,
		},
		{
			name:   "suffix only does not count as enclosed",
			sel:    Selection{Text: "hello**"},
			marker: Bold,
			want:   ActionWrap,
		},
		{
			name:   "three chars cannot enclose a four char pair",
			sel:    Selection{Text: "***"},
			marker: Bold,
			want:   ActionWrap,
		},
		{
			name:   "backtick code path",
			sel:    Selection{Text: "`code`"},
			marker: Code,
			want:   ActionUnwrapSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.sel, tt.marker))
		})
	}
}

func TestApply(t *testing.T) {
	t.Run("insert places cursor between markers", func(t *testing.T) {
		edit := Apply(Selection{}, Bold)

		require.Equal(t, ActionInsert, edit.Action)
		assert.Equal(t, "****", edit.Text)
		assert.Equal(t, 2, edit.SelStart)
		assert.Equal(t, 2, edit.SelEnd)
		assert.Zero(t, edit.TrimBefore)
		assert.Zero(t, edit.TrimAfter)
	})

	t.Run("wrap keeps original text selected", func(t *testing.T) {
		edit := Apply(Selection{Text: "hello"}, Bold)

		require.Equal(t, ActionWrap, edit.Action)
		assert.Equal(t, "**hello**", edit.Text)
		assert.Equal(t, "hello", edit.Text[edit.SelStart:edit.SelEnd])
	})

	t.Run("unwrap selection selects the inner text", func(t *testing.T) {
		edit := Apply(Selection{Text: "**hello**"}, Bold)

		require.Equal(t, ActionUnwrapSelection, edit.Action)
		assert.Equal(t, "hello", edit.Text)
		assert.Equal(t, 0, edit.SelStart)
		assert.Equal(t, 5, edit.SelEnd)
	})

	t.Run("unwrap of bare pair yields empty text", func(t *testing.T) {
		edit := Apply(Selection{Text: "**"}, Bold)

		require.Equal(t, ActionUnwrapSelection, edit.Action)
		assert.Empty(t, edit.Text)
		assert.Equal(t, 0, edit.SelStart)
		assert.Equal(t, 0, edit.SelEnd)
	})

	t.Run("unwrap surrounding trims the flanking markers", func(t *testing.T) {
		edit := Apply(Selection{Text: "hello", Before: "**", After: "**"}, Bold)

		require.Equal(t, ActionUnwrapSurrounding, edit.Action)
		assert.Equal(t, "hello", edit.Text)
		assert.Equal(t, 2, edit.TrimBefore)
		assert.Equal(t, 2, edit.TrimAfter)
	})

	t.Run("italic unwrap of bold text is literal", func(t *testing.T) {
		edit := Apply(Selection{Text: "**hello**"}, Italic)

		require.Equal(t, ActionUnwrapSelection, edit.Action)
		assert.Equal(t, "*hello*", edit.Text)
	})
}

func TestProbe(t *testing.T) {
	t.Run("slices markers around the span", func(t *testing.T) {
		doc := "a**hello**b"
		sel := Probe(doc, 3, 8, Bold)

		assert.Equal(t, "hello", sel.Text)
		assert.Equal(t, "**", sel.Before)
		assert.Equal(t, "**", sel.After)
		assert.Equal(t, "a", sel.OuterBefore)
		assert.Equal(t, "b", sel.OuterAfter)
	})

	t.Run("clamps at document start", func(t *testing.T) {
		sel := Probe("hello", 0, 5, Bold)

		assert.Equal(t, "hello", sel.Text)
		assert.Empty(t, sel.Before)
		assert.Empty(t, sel.After)
		assert.Empty(t, sel.OuterBefore)
		assert.Empty(t, sel.OuterAfter)
	})

	t.Run("short edge never matches a full marker", func(t *testing.T) {
		sel := Probe("*hi*", 1, 3, Bold)

		assert.Equal(t, "hi", sel.Text)
		assert.Empty(t, sel.Before)
		assert.Empty(t, sel.After)
		assert.Equal(t, ActionWrap, Resolve(sel, Bold))
	})

	t.Run("cursor inside a marker run exposes the outer characters", func(t *testing.T) {
		doc := "****"
		sel := Probe(doc, 2, 2, Italic)

		assert.Empty(t, sel.Text)
		assert.Equal(t, "*", sel.Before)
		assert.Equal(t, "*", sel.After)
		assert.Equal(t, "*", sel.OuterBefore)
		assert.Equal(t, "*", sel.OuterAfter)

		// The asterisks around the cursor look like italic markers, but the
		// outer run shows they belong to a longer sequence, so the cursor
		// gets a fresh pair instead of unwrapping.
		assert.Equal(t, ActionInsert, Resolve(sel, Italic))
	})

	t.Run("cursor inside a lone italic pair unwraps it", func(t *testing.T) {
		sel := Probe("a**b", 2, 2, Italic)

		assert.Empty(t, sel.Text)
		assert.Equal(t, "*", sel.Before)
		assert.Equal(t, "*", sel.After)
		assert.Equal(t, "a", sel.OuterBefore)
		assert.Equal(t, "b", sel.OuterAfter)
		assert.Equal(t, ActionUnwrapSurrounding, Resolve(sel, Italic))
	})

	t.Run("normalizes inverted spans", func(t *testing.T) {
		sel := Probe("hello", 4, 1, Bold)
		assert.Equal(t, "ell", sel.Text)
	})

	t.Run("clamps out of range spans", func(t *testing.T) {
		sel := Probe("hi", -3, 99, Bold)
		assert.Equal(t, "hi", sel.Text)
	})
}

func TestResolveProperties(t *testing.T) {
	markers := []Marker{Bold, Italic, Strike, Highlight, Code}

	t.Run("wrapping then reselecting unwraps back to the original", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			m := rapid.SampledFrom(markers).Draw(t, "marker")
			text := rapid.StringMatching(`[a-z ]{1,20}`).Draw(t, "text")

			wrapped := Apply(Selection{Text: text}, m)
			require.Equal(t, ActionWrap, wrapped.Action)

			back := Apply(Selection{Text: wrapped.Text}, m)
			require.Equal(t, ActionUnwrapSelection, back.Action)
			require.Equal(t, text, back.Text)
		})
	})

	t.Run("enclosed selection always wins over surrounding context", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			m := rapid.SampledFrom(markers).Draw(t, "marker")
			inner := rapid.StringMatching(`[a-z]{0,10}`).Draw(t, "inner")
			sel := Selection{
				Text:        m.Before + inner + m.After,
				Before:      rapid.SampledFrom([]string{"", m.Before, "xy"}).Draw(t, "before"),
				After:       rapid.SampledFrom([]string{"", m.After, "xy"}).Draw(t, "after"),
				OuterBefore: rapid.SampledFrom([]string{"", "*", "a"}).Draw(t, "outerBefore"),
			}

			require.Equal(t, ActionUnwrapSelection, Resolve(sel, m))
		})
	})

	t.Run("every input resolves to a defined action", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			m := rapid.SampledFrom(markers).Draw(t, "marker")
			sel := Selection{
				Text:        rapid.StringMatching(`[a-z*~=` + "`" + ` ]{0,12}`).Draw(t, "text"),
				Before:      rapid.StringMatching(`[a-z*~=]{0,2}`).Draw(t, "before"),
				After:       rapid.StringMatching(`[a-z*~=]{0,2}`).Draw(t, "after"),
				OuterBefore: rapid.StringMatching(`[a-z*~=]{0,1}`).Draw(t, "outerBefore"),
				OuterAfter:  rapid.StringMatching(`[a-z*~=]{0,1}`).Draw(t, "outerAfter"),
			}

			got := Resolve(sel, m)
			require.Contains(t,
				[]Action{ActionInsert, ActionWrap, ActionUnwrapSelection, ActionUnwrapSurrounding},
				got)
			require.NotEqual(t, "unknown", got.String())
		})
	})

	t.Run("probe round trips through apply", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			m := rapid.SampledFrom(markers).Draw(t, "marker")
			doc := rapid.StringMatching(`[a-z*~=]{0,16}`).Draw(t, "doc")
			start := rapid.IntRange(0, len(doc)).Draw(t, "start")
			end := rapid.IntRange(start, len(doc)).Draw(t, "end")

			sel := Probe(doc, start, end, m)
			edit := Apply(sel, m)

			from := start - edit.TrimBefore
			to := end + edit.TrimAfter
			require.GreaterOrEqual(t, from, 0)
			require.LessOrEqual(t, to, len(doc))

			next := doc[:from] + edit.Text + doc[to:]
			require.Equal(t, edit.Text[edit.SelStart:edit.SelEnd],
				next[from+edit.SelStart:from+edit.SelEnd])
		})
	})
}
