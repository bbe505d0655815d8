package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/toybox/vmath"
)

const (
	dotRune  = '●'
	lineRune = '·'
)

// Surface draws world-space primitives onto a tcell screen through a Viewport
type Surface struct {
	screen   tcell.Screen
	viewport Viewport
	bg       tcell.Style
}

// NewSurface creates a surface over screen
func NewSurface(screen tcell.Screen, viewport Viewport) *Surface {
	return &Surface{
		screen:   screen,
		viewport: viewport,
		bg:       tcell.StyleDefault.Background(RgbBackground),
	}
}

// Viewport returns the active world mapping
func (s *Surface) Viewport() Viewport {
	return s.viewport
}

// SetViewport replaces the world mapping, used on resize
func (s *Surface) SetViewport(v Viewport) {
	s.viewport = v
}

// Clear fills the screen with the background
func (s *Surface) Clear() {
	s.screen.Fill(' ', s.bg)
}

// Show flushes the frame to the terminal
func (s *Surface) Show() {
	s.screen.Show()
}

func (s *Surface) Dot(p vmath.Vec2, color tcell.Color) {
	x, y := s.viewport.ToCell(p)
	s.set(x, y, dotRune, color)
}

// Line clips a-b to the viewport and rasterises the visible part with Bresenham; cells already holding a dot keep it
func (s *Surface) Line(a, b vmath.Vec2, color tcell.Color) {
	if !vmath.V2IsFinite(a) || !vmath.V2IsFinite(b) {
		return
	}
	a, b, ok := s.viewport.Clip(a, b)
	if !ok {
		return
	}
	x0, y0 := s.viewport.ToCell(a)
	x1, y1 := s.viewport.ToCell(b)

	dx := x1 - x0
	dy := y1 - y0
	absDx, absDy := dx, dy
	if absDx < 0 {
		absDx = -absDx
	}
	if absDy < 0 {
		absDy = -absDy
	}
	stepX, stepY := 1, 1
	if dx < 0 {
		stepX = -1
	}
	if dy < 0 {
		stepY = -1
	}

	// Clipped ends sit on the border, so the walk stays within a screen's worth of cells
	limit := 4 * (s.viewport.Cols + s.viewport.Rows)
	err := absDx - absDy
	x, y := x0, y0
	for i := 0; i <= limit; i++ {
		if s.viewport.Contains(x, y) {
			if r, _, _, _ := s.screen.GetContent(x, y); r != dotRune {
				s.set(x, y, lineRune, color)
			}
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -absDy {
			err -= absDy
			x += stepX
		}
		if e2 < absDx {
			err += absDx
			y += stepY
		}
	}
}

func (s *Surface) Text(col, row int, str string, color tcell.Color) {
	style := s.bg.Foreground(color)
	x := col
	for _, r := range str {
		if s.viewport.Contains(x, row) {
			s.screen.SetContent(x, row, r, nil, style)
		}
		x++
	}
}

func (s *Surface) Bounds() (vmath.Vec2, vmath.Vec2) {
	return s.viewport.Bounds()
}

func (s *Surface) set(x, y int, r rune, color tcell.Color) {
	if !s.viewport.Contains(x, y) {
		return
	}
	s.screen.SetContent(x, y, r, nil, s.bg.Foreground(color))
}
