// Package export renders a fortune into a PNG card.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultFileName is the file name used when the caller does not pick one.
const DefaultFileName = "my-2025-fortune.png"

// ErrNoFortune is returned when there is nothing to render.
var ErrNoFortune = errors.New("no fortune to export")

const (
	title      = "Your 2025 Fortune"
	cardWidth  = 480
	padding    = 24
	lineHeight = 18
	border     = 3
)

// Style holds the card colors.
type Style struct {
	Background color.Color
	Foreground color.Color
	Accent     color.Color
}

// DefaultStyle matches the light theme.
var DefaultStyle = Style{
	Background: color.RGBA{R: 0xfd, G: 0xf4, B: 0xff, A: 0xff},
	Foreground: color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff},
	Accent:     color.RGBA{R: 0xa8, G: 0x55, B: 0xf7, A: 0xff},
}

// Render draws fortune onto a card sized to fit the wrapped text.
func Render(fortune string, style Style) (*image.RGBA, error) {
	if strings.TrimSpace(fortune) == "" {
		return nil, ErrNoFortune
	}

	face := basicfont.Face7x13
	lines := Wrap(fortune, face, cardWidth-2*padding)

	height := padding*2 + lineHeight*(len(lines)+2)
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, height))

	draw.Draw(img, img.Bounds(), image.NewUniform(style.Accent), image.Point{}, draw.Src)
	inner := image.Rect(border, border, cardWidth-border, height-border)
	draw.Draw(img, inner, image.NewUniform(style.Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(style.Accent),
		Face: face,
		Dot:  fixed.P(padding, padding+lineHeight),
	}
	d.DrawString(title)

	d.Src = image.NewUniform(style.Foreground)
	for i, line := range lines {
		d.Dot = fixed.P(padding, padding+lineHeight*(i+3))
		d.DrawString(line)
	}

	return img, nil
}

// WritePNG encodes the fortune card to w.
func WritePNG(w io.Writer, fortune string, style Style) error {
	img, err := Render(fortune, style)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SaveFile writes the fortune card to path, or DefaultFileName when path is empty.
// It returns the path written.
func SaveFile(path, fortune string, style Style) (string, error) {
	if strings.TrimSpace(fortune) == "" {
		return "", ErrNoFortune
	}
	if path == "" {
		path = DefaultFileName
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePNG(f, fortune, style); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// Wrap splits text into lines no wider than maxWidth pixels in face.
// Words wider than a line are kept whole on their own line.
func Wrap(text string, face font.Face, maxWidth int) []string {
	limit := fixed.I(maxWidth)
	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if font.MeasureString(face, candidate) > limit {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}

	return lines
}
