package stats

import (
	"bytes"
	"fmt"
	"time"

	"wheelhouse/bot/common"
	"wheelhouse/models"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

const leaderboardImageName = "leaderboard.png"

type column struct {
	header string
	x      float64
	rgb    [3]float64
}

// BoardRenderer draws the leaderboard as a PNG table
type BoardRenderer struct {
	Width     int
	Padding   float64
	RowHeight float64
}

// NewBoardRenderer returns a renderer sized for a Discord embed image
func NewBoardRenderer() *BoardRenderer {
	return &BoardRenderer{Width: 360, Padding: 15, RowHeight: 26}
}

// podium colours for ranks 1-3
var podium = [3][3]float64{
	{1, 0.84, 0},
	{0.75, 0.75, 0.75},
	{0.8, 0.5, 0.2},
}

// Render draws entries in rank order. An empty board still yields a header-only image.
func (r *BoardRenderer) Render(entries []*models.LeaderboardEntry) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithFields(log.Fields{
			"duration_ms": time.Since(start).Milliseconds(),
			"row_count":   len(entries),
		}).Debug("Leaderboard image rendered")
	}()

	columns := []column{
		{header: "#", x: r.Padding, rgb: [3]float64{0.85, 0.85, 0.9}},
		{header: "Player", x: r.Padding + 30, rgb: [3]float64{1, 1, 1}},
		{header: "Chips", x: r.Padding + 220, rgb: [3]float64{0.85, 1, 0.85}},
	}

	height := int(55 + float64(len(entries))*r.RowHeight + 15)
	dc := gg.NewContext(r.Width, height)

	// felt green background, darker toward the bottom
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		dc.SetRGB(0.03, 0.22-t*0.08, 0.1-t*0.04)
		dc.DrawLine(0, float64(y), float64(r.Width), float64(y))
		dc.Stroke()
	}

	face, err := loadFace(gomono.TTF, 12)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	rankFace, err := loadFace(gobold.TTF, 9)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetFontFace(face)

	y := 25.0
	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawRectangle(0, y-15, float64(r.Width), 20)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	for _, col := range columns {
		drawShadowed(dc, col.header, col.x, y)
	}
	dc.SetRGBA(0.6, 0.7, 0.6, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, float64(r.Width), y+8)
	dc.Stroke()

	y += 30
	for i, entry := range entries {
		if i < len(podium) {
			c := podium[i]
			dc.SetRGBA(c[0], c[1], c[2], 0.1)
			dc.DrawRectangle(0, y-15, float64(r.Width), r.RowHeight)
			dc.Fill()

			dc.SetRGB(c[0], c[1], c[2])
			dc.DrawCircle(r.Padding+3, y-4, 6)
			dc.Fill()
			dc.SetRGB(0, 0, 0)
			dc.SetFontFace(rankFace)
			dc.DrawStringAnchored(fmt.Sprintf("%d", entry.Rank), r.Padding+3, y-5, 0.5, 0.4)
			dc.SetFontFace(face)
		} else {
			rgb := columns[0].rgb
			dc.SetRGB(rgb[0], rgb[1], rgb[2])
			drawShadowed(dc, fmt.Sprintf("%d", entry.Rank), columns[0].x, y)
		}

		cells := []string{truncateName(entry.Username, 20), common.FormatBalance(entry.Balance)}
		for j, text := range cells {
			col := columns[j+1]
			dc.SetRGB(col.rgb[0], col.rgb[1], col.rgb[2])
			drawShadowed(dc, text, col.x, y)
		}
		y += r.RowHeight
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func truncateName(name string, limit int) string {
	runes := []rune(name)
	if len(runes) <= limit {
		return name
	}
	return string(runes[:limit-1]) + "…"
}

func drawShadowed(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()
	dc.DrawString(text, x, y)
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
