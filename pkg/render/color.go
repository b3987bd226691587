package render

import (
	"strconv"
	"strings"
)

// palette colors datasets that set no color of their own.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
}

// named covers the color keywords documents are likely to use.
var named = map[string]rgba{
	"black":       {0, 0, 0, 1},
	"white":       {255, 255, 255, 1},
	"red":         {255, 0, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
	"orange":      {255, 165, 0, 1},
	"purple":      {128, 0, 128, 1},
	"yellow":      {255, 255, 0, 1},
	"transparent": {0, 0, 0, 0},
}

type rgba struct {
	R, G, B int
	A       float64
}

// datasetColor returns the fill color of dataset i.
func datasetColor(color string, i int) string {
	if color != "" {
		return color
	}
	return palette[i%len(palette)]
}

// parseColor reads a hex or named color. ok is false for anything else.
func parseColor(s string) (c rgba, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return rgba{}, false
	}
	hex := s[1:]
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	if len(hex) != 6 && len(hex) != 8 {
		return rgba{}, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgba{}, false
	}
	if len(hex) == 6 {
		return rgba{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff), A: 1}, true
	}
	return rgba{
		R: int(v >> 24 & 0xff),
		G: int(v >> 16 & 0xff),
		B: int(v >> 8 & 0xff),
		A: float64(v&0xff) / 255,
	}, true
}
