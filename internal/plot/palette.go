package plot

import "github.com/wcharczuk/go-chart/v2/drawing"

// palette is the fixed 10-color categorical cycle used for simulated
// spectra. Successive series take successive colors, wrapping at ten, so a
// run's checkpoints stay visually distinct and deterministic.
var palette = [10]drawing.Color{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
	{R: 227, G: 119, B: 194, A: 255},
	{R: 127, G: 127, B: 127, A: 255},
	{R: 188, G: 189, B: 34, A: 255},
	{R: 23, G: 190, B: 207, A: 255},
}

// PaletteColor returns the categorical color for the i-th simulated series.
func PaletteColor(i int) drawing.Color {
	return palette[((i%len(palette))+len(palette))%len(palette)]
}
