package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	ogWidth  = 1200
	ogHeight = 630

	ogTitleLineRunes = 25
	ogTitleMaxLines  = 3
	ogDefaultTitle   = "Вакансия"
	ogBadgeText      = "ВАКАНСИЯ"
)

// OGCard is the text rendered onto a share image.
type OGCard struct {
	Title      string
	Department string
	Salary     string
}

var (
	boldFont    = mustParseFont(gobold.TTF)
	regularFont = mustParseFont(goregular.TTF)
)

func mustParseFont(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

func hexColor(s string) color.RGBA {
	v, _ := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// wrapTitle splits a title into lines of at most limit runes, breaking on
// spaces. A single word longer than the limit keeps its own line.
func wrapTitle(title string, limit int) []string {
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(title) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if utf8.RuneCountInString(candidate) > limit && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func fillRect(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// drawText places s with its top-left corner at (x, y).
func drawText(img draw.Image, face font.Face, c color.Color, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// RenderOGImage draws the 1200x630 PNG share card for a vacancy.
func RenderOGImage(card OGCard) ([]byte, error) {
	title := strings.TrimSpace(card.Title)
	if title == "" {
		title = ogDefaultTitle
	}

	titleFace, err := newFace(boldFont, 60)
	if err != nil {
		return nil, fmt.Errorf("title face: %w", err)
	}
	defer titleFace.Close()
	textFace, err := newFace(regularFont, 36)
	if err != nil {
		return nil, fmt.Errorf("text face: %w", err)
	}
	defer textFace.Close()
	brandFace, err := newFace(boldFont, 48)
	if err != nil {
		return nil, fmt.Errorf("brand face: %w", err)
	}
	defer brandFace.Close()
	badgeFace, err := newFace(boldFont, 32)
	if err != nil {
		return nil, fmt.Errorf("badge face: %w", err)
	}
	defer badgeFace.Close()

	img := image.NewRGBA(image.Rect(0, 0, ogWidth, ogHeight))
	fillRect(img, img.Bounds(), hexColor("#f8fafc"))
	fillRect(img, image.Rect(40, 40, 1160, 590), hexColor("#e2e8f0"))
	fillRect(img, image.Rect(42, 42, 1158, 588), color.White)

	brand := hexColor("#3b82f6")
	drawText(img, brandFace, brand, 80, 80, "iHUNT")

	m := badgeFace.Metrics()
	badgeW := font.MeasureString(badgeFace, ogBadgeText).Ceil() + 40
	badgeH := (m.Ascent + m.Descent).Ceil() + 20
	badgeX := 1160 - badgeW - 20
	fillRect(img, image.Rect(badgeX, 80, badgeX+badgeW, 80+badgeH), brand)
	drawText(img, badgeFace, color.White, badgeX+20, 90, ogBadgeText)

	y := 250
	lines := wrapTitle(title, ogTitleLineRunes)
	if len(lines) > ogTitleMaxLines {
		lines = lines[:ogTitleMaxLines]
	}
	for _, line := range lines {
		drawText(img, titleFace, hexColor("#1e293b"), 80, y, line)
		y += 80
	}
	if card.Department != "" {
		drawText(img, textFace, hexColor("#64748b"), 80, y+20, card.Department)
	}
	if card.Salary != "" {
		drawText(img, textFace, hexColor("#16a34a"), 80, y+80, card.Salary)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
