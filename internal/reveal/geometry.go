package reveal

// Rect is an axis-aligned rectangle in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Margin grows (positive) or shrinks (negative) the root rectangle before
// intersecting, like the rootMargin of an intersection observer.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Apply returns r adjusted by m.
func (m Margin) Apply(r Rect) Rect {
	return Rect{
		X:      r.X - m.Left,
		Y:      r.Y - m.Top,
		Width:  r.Width + m.Left + m.Right,
		Height: r.Height + m.Top + m.Bottom,
	}
}

func (r Rect) area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// intersect returns the overlap of a and b and whether they touch at all.
func intersect(a, b Rect) (Rect, bool) {
	x0, y0 := max(a.X, b.X), max(a.Y, b.Y)
	x1, y1 := min(a.X+a.Width, b.X+b.Width), min(a.Y+a.Height, b.Y+b.Height)
	if x1 < x0 || y1 < y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Ratio returns the fraction of target visible inside root after applying
// margin, and whether target intersects the adjusted root at all.
// A zero-area target reports 1 when it lies inside the root.
func Ratio(target, root Rect, margin Margin) (float64, bool) {
	adjusted := margin.Apply(root)
	overlap, ok := intersect(target, adjusted)
	if !ok {
		return 0, false
	}
	ta := target.area()
	if ta == 0 {
		return 1, true
	}
	return overlap.area() / ta, true
}
