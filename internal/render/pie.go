package render

import (
	"fmt"
	"io"
	"math"
)

const (
	pieWidth        = 500
	pieMinHeight    = 400
	pieCenterX      = 250
	pieCenterY      = 180
	pieRadius       = 100
	pieLabelMinPct  = 5.0
	legendStartX    = 30
	legendStartY    = 310
	legendPerRow    = 3
	legendItemWidth = 150
	legendRowHeight = 22
	legendLabelRune = 12
)

// PieHeight returns the canvas height for a legend of n entries
func PieHeight(n int) int {
	rows := (n + legendPerRow - 1) / legendPerRow
	return max(pieMinHeight, legendStartY+rows*legendRowHeight+20)
}

// Pie draws slices clockwise from twelve o'clock with an inline percentage on
// slices of at least 5% and a three column legend below
func Pie(w io.Writer, c Chart, format Format) error {
	buckets := c.Data.Buckets
	height := PieHeight(len(buckets))

	cv, err := newCanvas(format, pieWidth, height)
	if err != nil {
		return err
	}
	cv.header(c.Title, c.Data.Total, pieWidth)

	if c.Data.Total == 0 {
		cv.empty(pieWidth, height)
		return cv.save(w)
	}

	angle := -math.Pi / 2
	for i, b := range buckets {
		share := float64(b.Count) / float64(c.Data.Total)
		sweep := share * 2 * math.Pi
		color := paletteColor(c.Colors, i)

		cv.r.SetFillColor(color)
		cv.r.SetStrokeColor(colorWhite)
		cv.r.SetStrokeWidth(1)
		if len(buckets) == 1 {
			cv.r.Circle(pieRadius, pieCenterX, pieCenterY)
			cv.r.Fill()
		} else {
			cv.r.MoveTo(pieCenterX, pieCenterY)
			cv.r.ArcTo(pieCenterX, pieCenterY, pieRadius, pieRadius, angle, sweep)
			cv.r.LineTo(pieCenterX, pieCenterY)
			cv.r.Close()
			cv.r.FillStroke()
		}

		pct := share * 100
		if pct >= pieLabelMinPct {
			mid := angle + sweep/2
			x := pieCenterX + int(pieRadius*0.65*math.Cos(mid))
			y := pieCenterY + int(pieRadius*0.65*math.Sin(mid)) + 4
			cv.text(percentLabel(b.Count, c.Data.Total)+"%", x, y, 11, colorWhite, alignMiddle)
		}
		angle += sweep
	}

	for i, b := range buckets {
		x := legendStartX + (i%legendPerRow)*legendItemWidth
		y := legendStartY + (i/legendPerRow)*legendRowHeight
		cv.rect(x, y, 14, 14, paletteColor(c.Colors, i))
		cv.text(fmt.Sprintf("%s (%d)", truncate(b.Label, legendLabelRune), b.Count), x+20, y+11, 10, colorText, alignStart)
	}
	return cv.save(w)
}
