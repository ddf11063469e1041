package content

import (
	"time"

	"github.com/starford/vitrine/internal/reveal"
)

// Card entrance stagger of the specialization grid.
const cardStagger = 100 * time.Millisecond

// Choreography returns the entrance motions of a section, one per animated
// child in document order. items is the number of cards the section shows.
// Sections without entrance animation return nil.
func Choreography(key string, items int) []reveal.Motion {
	switch key {
	case KeyAboutSection:
		return []reveal.Motion{
			reveal.Rise(15, 600*time.Millisecond),
			reveal.Rise(20, 800*time.Millisecond).WithDelay(200 * time.Millisecond),
		}
	case KeySpecialization:
		header := reveal.Rise(30, 600*time.Millisecond)
		header.Transition.Ease = ""
		return append([]reveal.Motion{header}, reveal.Stagger(header, items, cardStagger)...)
	default:
		return nil
	}
}
