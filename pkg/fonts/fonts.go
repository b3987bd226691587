// Package fonts measures label text and provides the font used for output.
//
// Labels are measured with Go Regular from golang.org/x/image, the same face
// the SVG and PDF sinks render with, so measured boxes match the drawn text.
// Faces are parsed once and cached per size.
package fonts

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name of the embedded font.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for viewers without the embedded font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif`

// DefaultSize is the label font size in pixels.
const DefaultSize = 12

// DefaultLineHeight is the line height as a multiple of the font size.
const DefaultLineHeight = 1.2

// RegularTTF returns the TTF font data.
func RegularTTF() []byte {
	return goregular.TTF
}

var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularTTFBase64 returns the TTF font data as a base64 string.
// The result is cached after first computation.
func RegularTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

var (
	parsed    *opentype.Font
	parseErr  error
	parseOnce sync.Once

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

func face(size float64) (font.Face, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("parse font: %w", parseErr)
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	faces[size] = f
	return f, nil
}

// Measure returns the width and height of text set at size pixels with the
// given line height factor. Lines are split on "\n"; the width is the widest
// line. A non-positive size uses [DefaultSize], a non-positive line height
// uses [DefaultLineHeight].
func Measure(text string, size, lineHeight float64) (w, h float64, err error) {
	if size <= 0 {
		size = DefaultSize
	}
	if lineHeight <= 0 {
		lineHeight = DefaultLineHeight
	}

	f, err := face(size)
	if err != nil {
		return 0, 0, err
	}

	lines := strings.Split(text, "\n")
	facesMu.Lock()
	for _, line := range lines {
		adv := font.MeasureString(f, line)
		if lw := float64(adv) / 64; lw > w {
			w = lw
		}
	}
	facesMu.Unlock()

	return w, float64(len(lines)) * size * lineHeight, nil
}
