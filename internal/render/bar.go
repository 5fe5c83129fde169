package render

import (
	"fmt"
	"io"
)

const (
	barWidth       = 600
	barBand        = 35
	barMarginLeft  = 150
	barMarginRight = 120
	barMarginTop   = 60
	barLabelRunes  = 18
)

// BarHeight returns the canvas height for n bars
func BarHeight(n int) int {
	return max(400, n*barBand+100)
}

// Bar draws a horizontal bar per bucket with its count and share
func Bar(w io.Writer, c Chart, format Format) error {
	buckets := c.Data.Buckets
	height := BarHeight(len(buckets))

	cv, err := newCanvas(format, barWidth, height)
	if err != nil {
		return err
	}
	cv.header(c.Title, c.Data.Total, barWidth)

	if len(buckets) == 0 {
		cv.empty(barWidth, height)
		return cv.save(w)
	}

	maxCount := 0
	for _, b := range buckets {
		maxCount = max(maxCount, b.Count)
	}
	plotWidth := barWidth - barMarginLeft - barMarginRight

	for i, b := range buckets {
		y := barMarginTop + i*barBand
		length := 0
		if maxCount > 0 {
			length = b.Count * plotWidth / maxCount
		}
		textY := y + barBand/2 + 4

		cv.text(truncate(b.Label, barLabelRunes), barMarginLeft-10, textY, 11, colorText, alignEnd)
		cv.rect(barMarginLeft, y, length, barBand-5, paletteColor(c.Colors, i))
		cv.text(fmt.Sprintf("%d (%s%%)", b.Count, percentLabel(b.Count, c.Data.Total)), barMarginLeft+length+8, textY, 11, colorText, alignStart)
	}
	return cv.save(w)
}
