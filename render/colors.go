package render

import "github.com/gdamore/tcell/v2"

// Toy palette
var (
	RgbWhite  = tcell.NewRGBColor(255, 255, 255)
	RgbOrange = tcell.NewRGBColor(255, 200, 0)
	RgbYellow = tcell.NewRGBColor(255, 255, 0)
	RgbRed    = tcell.NewRGBColor(255, 0, 0)
	RgbBlack  = tcell.NewRGBColor(0, 0, 0)
	RgbGray   = tcell.NewRGBColor(100, 100, 100)
	RgbGreen  = tcell.NewRGBColor(0, 255, 0)
	RgbBlue   = tcell.NewRGBColor(0, 0, 255)
	RgbPink   = tcell.NewRGBColor(255, 105, 180)

	RgbBackground = RgbBlack
	RgbHUD        = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbHUDWarn    = tcell.NewRGBColor(255, 200, 50)
)

// Heat maps t in [0,1] from blue through green to red, used for stretch shading
func Heat(t float64) tcell.Color {
	t = max(0, min(1, t))
	if t < 0.5 {
		k := t * 2
		return tcell.NewRGBColor(0, int32(255*k), int32(255*(1-k)))
	}
	k := (t - 0.5) * 2
	return tcell.NewRGBColor(int32(255*k), int32(255*(1-k)), 0)
}
