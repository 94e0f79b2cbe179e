package explorer

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

var ErrUnsupportedColormap = errors.New("unsupported colormap")

// paletteSize is the number of colours sampled from continuous colormaps.
const paletteSize = 256

// diverging adapts the Moreland diverging constructors to the map's value type.
func diverging(mk func() palette.DivergingColorMap) func() palette.ColorMap {
	return func() palette.ColorMap { return mk() }
}

var colorMaps = map[string]func() palette.ColorMap{
	"coolwarm":          diverging(moreland.SmoothBlueRed),
	"bluered":           diverging(moreland.SmoothBlueRed),
	"bluetan":           diverging(moreland.SmoothBlueTan),
	"greenpurple":       diverging(moreland.SmoothGreenPurple),
	"greenred":          diverging(moreland.SmoothGreenRed),
	"purpleorange":      diverging(moreland.SmoothPurpleOrange),
	"kindlmann":         moreland.Kindlmann,
	"extendedkindlmann": moreland.ExtendedKindlmann,
	"blackbody":         moreland.BlackBody,
	"extendedblackbody": moreland.ExtendedBlackBody,
}

// ResolvePalette maps a colormap name to colours, low to high. It knows the
// Moreland maps (coolwarm and friends), heat, rainbow and every ColorBrewer
// scheme (case-sensitive, e.g. RdBu). A "_r" suffix reverses the map.
func ResolvePalette(name string) (palette.Palette, error) {
	base, reversed := strings.CutSuffix(name, "_r")
	p, err := lookupPalette(base)
	if err != nil {
		return nil, err
	}
	if reversed {
		return reverse(p), nil
	}
	return p, nil
}

func lookupPalette(name string) (palette.Palette, error) {
	if mk, ok := colorMaps[strings.ToLower(name)]; ok {
		cm := mk()
		cm.SetMax(1)
		cm.SetMin(0)
		return cm.Palette(paletteSize), nil
	}
	switch strings.ToLower(name) {
	case "heat":
		return palette.Heat(paletteSize, 1), nil
	case "rainbow":
		return palette.Rainbow(paletteSize, palette.Blue, palette.Red, 1, 1, 1), nil
	}
	// ColorBrewer schemes top out between 8 and 12 classes.
	for n := 12; n >= 3; n-- {
		if p, err := brewer.GetPalette(brewer.TypeAny, name, n); err == nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedColormap, name)
}

type colors []color.Color

func (c colors) Colors() []color.Color { return c }

func reverse(p palette.Palette) palette.Palette {
	src := p.Colors()
	out := make(colors, len(src))
	for i, c := range src {
		out[len(src)-1-i] = c
	}
	return out
}
