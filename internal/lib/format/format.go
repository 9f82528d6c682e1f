// Package format renders route totals the way the navigation display shows them.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders durations and distances for one locale
type Formatter struct {
	p *message.Printer
}

// New creates a formatter for tag
func New(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

var japanese = New(language.Japanese)

// Duration formats milliseconds as "H時間M分", "M分" or "S秒", using the largest unit present
func (f *Formatter) Duration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return f.p.Sprintf("%d時間%d分", hours, minutes)
	case minutes > 0:
		return f.p.Sprintf("%d分", minutes)
	default:
		return f.p.Sprintf("%d秒", seconds)
	}
}

// Distance formats meters as "X.Ykm" from 1000 m up, otherwise as rounded "Nm"
func (f *Formatter) Distance(meters float64) string {
	if meters >= 1000 {
		return f.p.Sprintf("%.1fkm", meters/1000)
	}
	return f.p.Sprintf("%dm", int64(math.Round(meters)))
}

// Duration formats with the Japanese formatter
func Duration(ms int64) string {
	return japanese.Duration(ms)
}

// Distance formats with the Japanese formatter
func Distance(meters float64) string {
	return japanese.Distance(meters)
}
