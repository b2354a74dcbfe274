package geometry

import "fmt"

// Point is a position in a surface's coordinate space.
type Point struct {
	X float64
	Y float64
}

// Offset is a translation applied to a surface.
type Offset struct {
	DX float64
	DY float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Translate returns the rectangle shifted by off.
func (r Rect) Translate(off Offset) Rect {
	return Rect{X: r.X + off.DX, Y: r.Y + off.DY, Width: r.Width, Height: r.Height}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.0f,%.0f %gx%g)", r.X, r.Y, r.Width, r.Height)
}
