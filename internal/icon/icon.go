// Package icon defines the closed vocabulary of icon names accepted in
// expertise cards and maps each one to a glyph slug of the icon library.
package icon

import (
	"slices"
	"strings"
	"unicode"
)

// Name is an icon name as written in the admin panel.
type Name string

// Known icon names.
const (
	Brain     Name = "Brain"
	Heart     Name = "Heart"
	Users     Name = "Users"
	Star      Name = "Star"
	Shield    Name = "Shield"
	Target    Name = "Target"
	Lightbulb Name = "Lightbulb"
	Zap       Name = "Zap"
	BookOpen  Name = "BookOpen"
	Sparkles  Name = "Sparkles"
)

// Default is the glyph used for unrecognized names.
const Default = Brain

// Glyph returns the kebab-case glyph slug, e.g. "book-open" for BookOpen.
func (n Name) Glyph() string {
	var b strings.Builder
	for i, r := range string(n) {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Set is an immutable vocabulary of icon names.
type Set struct {
	names map[Name]struct{}
}

// NewSet builds a vocabulary from names.
func NewSet(names ...Name) Set {
	m := make(map[Name]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return Set{names: m}
}

// With returns a new set holding s plus extra.
func (s Set) With(extra ...Name) Set {
	return NewSet(append(s.Names(), extra...)...)
}

// Contains reports whether n belongs to the set.
func (s Set) Contains(n Name) bool {
	_, ok := s.names[n]
	return ok
}

// Names returns the members of the set in lexical order.
func (s Set) Names() []Name {
	out := make([]Name, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Resolve maps a raw name to a member of the set. Unknown or empty names
// resolve to Default; lookup is exact, as in the admin panel.
func (s Set) Resolve(raw string) Name {
	if n := Name(raw); s.Contains(n) {
		return n
	}
	return Default
}

var (
	// Core is the vocabulary of the specialization section.
	Core = NewSet(Brain, Heart, Users, Star, Shield, Target, Lightbulb, Zap)
	// Extended is the vocabulary of the about section.
	Extended = Core.With(BookOpen, Sparkles)
)
