package reportservice

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors of rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}

var DefaultPalette = ChartPalette{
	Background: drawing.ColorWhite,
	Bar:        drawing.ColorFromHex("e8590c"),
	Text:       drawing.ColorFromHex("212529"),
}

// RenderCategoryChart draws one bar per category. With no riders at all a
// placeholder image is returned instead of an empty axis.
func RenderCategoryChart(bars []CategoryBar, palette ChartPalette) ([]byte, error) {
	highest := 0
	for _, b := range bars {
		highest = max(highest, b.Riders)
	}
	if highest == 0 {
		return renderNoDataPlaceholder(palette)
	}

	values := make([]chart.Value, len(bars))
	for i, b := range bars {
		values[i] = chart.Value{
			Label: b.Category,
			Value: float64(b.Riders),
			Style: chart.Style{FillColor: palette.Bar, StrokeColor: palette.Bar},
		}
	}

	graph := chart.BarChart{
		Title:      "Active riders by category",
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      640,
		Height:     400,
		BarWidth:   80,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  chart.Style{FontColor: palette.Text},
		// Bars start at zero; the library would otherwise scale from the
		// smallest bar and reject equal bars.
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(highest)},
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		Bars: values,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws the message straight onto a PNG renderer;
// chart types refuse to render without data.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No active riders"
	)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	chart.Draw.Box(r, chart.Box{Right: width, Bottom: height}, chart.Style{FillColor: palette.Background})

	r.SetFont(font)
	r.SetFontColor(palette.Text)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
