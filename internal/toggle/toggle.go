// Package toggle decides how an inline markdown style marker should be
// applied to an editor selection: insert fresh markers, wrap the selection,
// or strip markers found inside or immediately around it.
//
// The resolver is a pure string-prefix/suffix check. It has no notion of
// markdown semantics: a selection of "**hello**" toggled against italic
// markers unwraps one "*" from each end, producing "*hello*". Callers that
// want semantic mark detection need a real parser; this is deliberately the
// literal behavior.
package toggle

import "strings"

// Action is the resolver's decision for a single toggle request.
type Action int

const (
	// ActionInsert places an empty marker pair at the cursor. The caller
	// inserts MarkerBefore+MarkerAfter and parks the cursor between them.
	ActionInsert Action = iota

	// ActionWrap surrounds the selection with the marker pair and keeps
	// the original text selected.
	ActionWrap

	// ActionUnwrapSelection strips the markers off a selection that
	// itself starts with MarkerBefore and ends with MarkerAfter.
	ActionUnwrapSelection

	// ActionUnwrapSurrounding deletes marker text found immediately
	// outside the selection bounds, leaving the selection untouched.
	ActionUnwrapSurrounding
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionWrap:
		return "wrap"
	case ActionUnwrapSelection:
		return "unwrap-selection"
	case ActionUnwrapSurrounding:
		return "unwrap-surrounding"
	default:
		return "unknown"
	}
}

// Marker is a pair of literal delimiter strings for one inline style.
// Before and After are symmetric for every built-in style, but the resolver
// treats them independently.
type Marker struct {
	Before string
	After  string
}

// Built-in inline styles.
var (
	Bold      = Marker{"**", "**"}
	Italic    = Marker{"*", "*"}
	Strike    = Marker{"~~", "~~"}
	Highlight = Marker{"==", "=="}
	Code      = Marker{"`", "`"}
)

// Selection carries the text the user selected plus the probes the caller
// sliced from the document around it.
//
// Before and After must hold exactly len(Marker.Before) / len(Marker.After)
// bytes from immediately outside the selection, clamped at the document
// bounds (shorter slices simply never match). OuterBefore and OuterAfter
// are one further byte on each side and are only consulted to tell a lone
// "*" from the inside of a "**" run; leave them empty when unavailable.
type Selection struct {
	Text        string
	Before      string
	After       string
	OuterBefore string
	OuterAfter  string
}

// Resolve picks the action for toggling m against sel.
//
// Priority order, first match wins:
//  1. The selection itself carries both markers: unwrap it. An explicit
//     selection that includes its markers wins over anything flanking it.
//     A selection holding exactly one bare marker counts too and unwraps
//     to the empty string.
//  2. The probes outside the selection equal the markers: unwrap them,
//     unless an outer probe shows the matched marker is really the inside
//     of a longer run (e.g. the "*" probes around a cursor sitting inside
//     "**"), in which case fall through.
//  3. Empty selection: insert a fresh pair.
//  4. Otherwise: wrap.
//
// Every input combination maps to a defined Action; there is no error path.
func Resolve(sel Selection, m Marker) Action {
	if enclosesMarkers(sel.Text, m) {
		return ActionUnwrapSelection
	}

	if sel.Before == m.Before && sel.After == m.After && !outerRunConflict(sel, m) {
		return ActionUnwrapSurrounding
	}

	if sel.Text == "" {
		return ActionInsert
	}
	return ActionWrap
}

// enclosesMarkers reports whether text starts with the opening marker and
// ends with the closing one. A selection of exactly one bare symmetric
// marker qualifies as an empty pair.
func enclosesMarkers(text string, m Marker) bool {
	if len(text) >= len(m.Before)+len(m.After) &&
		strings.HasPrefix(text, m.Before) &&
		strings.HasSuffix(text, m.After) {
		return true
	}
	return m.Before == m.After && text == m.Before
}

// outerRunConflict reports whether an outer probe continues the marker run,
// meaning the matched probe is a fragment of a longer marker one level out
// rather than a complete marker of its own.
func outerRunConflict(sel Selection, m Marker) bool {
	if sel.OuterBefore != "" && sel.OuterBefore == m.Before[:1] {
		return true
	}
	if sel.OuterAfter != "" && sel.OuterAfter == m.After[len(m.After)-1:] {
		return true
	}
	return false
}

// Edit is the single atomic replacement a caller applies for a resolved
// action. The span [start, end) of the original selection is replaced by
// Text after first widening it by TrimBefore/TrimAfter bytes on each side;
// the new selection is [SelStart, SelEnd) relative to where the widened
// span began.
type Edit struct {
	Action     Action
	Text       string
	TrimBefore int
	TrimAfter  int
	SelStart   int
	SelEnd     int
}

// Apply resolves sel against m and computes the corresponding edit.
func Apply(sel Selection, m Marker) Edit {
	switch action := Resolve(sel, m); action {
	case ActionUnwrapSelection:
		lo, hi := len(m.Before), len(sel.Text)-len(m.After)
		if hi < lo {
			// Bare marker pair, nothing between
			hi = lo
		}
		inner := sel.Text[lo:hi]
		return Edit{Action: action, Text: inner, SelStart: 0, SelEnd: len(inner)}

	case ActionUnwrapSurrounding:
		return Edit{
			Action:     action,
			Text:       sel.Text,
			TrimBefore: len(m.Before),
			TrimAfter:  len(m.After),
			SelStart:   0,
			SelEnd:     len(sel.Text),
		}

	case ActionInsert:
		return Edit{
			Action:   action,
			Text:     m.Before + m.After,
			SelStart: len(m.Before),
			SelEnd:   len(m.Before),
		}

	default: // ActionWrap
		return Edit{
			Action:   action,
			Text:     m.Before + sel.Text + m.After,
			SelStart: len(m.Before),
			SelEnd:   len(m.Before) + len(sel.Text),
		}
	}
}

// Probe slices a Selection for the span [start, end) of doc, clamping the
// marker-length probes at the document bounds. Both editor call sites go
// through this so the slicing contract lives in one place.
func Probe(doc string, start, end int, m Marker) Selection {
	if start < 0 {
		start = 0
	}
	if end > len(doc) {
		end = len(doc)
	}
	if start > end {
		start, end = end, start
	}

	sel := Selection{Text: doc[start:end]}

	if from := start - len(m.Before); from >= 0 {
		sel.Before = doc[from:start]
		if from > 0 {
			sel.OuterBefore = doc[from-1 : from]
		}
	}
	if to := end + len(m.After); to <= len(doc) {
		sel.After = doc[end:to]
		if to < len(doc) {
			sel.OuterAfter = doc[to : to+1]
		}
	}
	return sel
}
