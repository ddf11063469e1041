// Package gradient splits free text into plain and emphasized segments.
//
// Markup: a matched pair of parentheses marks an emphasized span, so
// "Minhas (especialidades)" emphasizes "especialidades". Several pairs may
// appear in one string; pairs do not nest. Text whose parentheses are
// unbalanced or nested is returned as a single plain segment.
package gradient

import "strings"

// Delimiters of an emphasized span.
const (
	Open  = '('
	Close = ')'
)

// Kind tags a segment.
type Kind string

const (
	Plain      Kind = "plain"
	Emphasized Kind = "emphasized"
)

// Segment is one run of text. Text is what gets displayed; Raw is the exact
// slice of the input, delimiters included.
type Segment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	Raw  string `json:"raw"`
}

// Text is a processed string ready for presentation.
type Text struct {
	Raw      string    `json:"raw"`
	Segments []Segment `json:"segments"`
}

// Parse splits s and keeps the original alongside the segments.
func Parse(s string) Text {
	segs := Split(s)
	if segs == nil {
		segs = []Segment{}
	}
	return Text{Raw: s, Segments: segs}
}

// String returns the display text, delimiters removed.
func (t Text) String() string {
	var b strings.Builder
	for _, seg := range t.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Split returns the segments of s in order. Join(Split(s)) == s for every s.
// The empty string yields no segments.
func Split(s string) []Segment {
	if s == "" {
		return nil
	}
	if !wellFormed(s) {
		return []Segment{{Kind: Plain, Text: s, Raw: s}}
	}

	var out []Segment
	plainStart := 0
	for i := 0; i < len(s); i++ {
		if s[i] != Open {
			continue
		}
		end := i + 1 + strings.IndexByte(s[i+1:], Close)
		if end == i+1 {
			// "()" carries nothing to emphasize; keep it as plain text.
			i = end
			continue
		}
		if i > plainStart {
			out = appendPlain(out, s[plainStart:i])
		}
		out = append(out, Segment{Kind: Emphasized, Text: s[i+1 : end], Raw: s[i : end+1]})
		plainStart = end + 1
		i = end
	}
	if plainStart < len(s) {
		out = appendPlain(out, s[plainStart:])
	}
	return out
}

// appendPlain adds a plain run, merging it with a preceding plain run.
func appendPlain(out []Segment, s string) []Segment {
	if n := len(out); n > 0 && out[n-1].Kind == Plain {
		out[n-1].Text += s
		out[n-1].Raw += s
		return out
	}
	return append(out, Segment{Kind: Plain, Text: s, Raw: s})
}

// wellFormed reports whether every delimiter belongs to a flat, closed pair.
func wellFormed(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case Open:
			if depth == 1 {
				return false
			}
			depth++
		case Close:
			if depth == 0 {
				return false
			}
			depth--
		}
	}
	return depth == 0
}

// Join concatenates the raw text of segs, reconstructing the input of Split.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(seg.Raw)
	}
	return b.String()
}

// HasEmphasis reports whether segs contain an emphasized span.
func HasEmphasis(segs []Segment) bool {
	for _, seg := range segs {
		if seg.Kind == Emphasized {
			return true
		}
	}
	return false
}
