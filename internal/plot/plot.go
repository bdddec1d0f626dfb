// Package plot renders the visual QA artifact: telemetry elevation over
// time with a marker at each photo capture time, so the operator can
// confirm the photo timestamps fall inside the flight's span.
//
// Plotting is diagnostic only — callers log failures and carry on, since a
// missing plot never corrupts data.
package plot

import (
	"fmt"
	"io"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/whcmsc/surveyprep/internal/domain"
)

// Render draws the elevation/capture-time comparison chart as a PNG.
// It needs at least two elevation samples to draw a line.
func Render(w io.Writer, tel domain.TelemetryTable, photos domain.PhotoTable) error {
	var times []time.Time
	var eles []float64
	minEle := 0.0
	for _, p := range tel {
		if p.Ele == nil {
			continue
		}
		if len(eles) == 0 || *p.Ele < minEle {
			minEle = *p.Ele
		}
		times = append(times, p.Time)
		eles = append(eles, *p.Ele)
	}
	if len(eles) < 2 {
		return fmt.Errorf("flight-path plot: %d elevation sample(s), need at least 2", len(eles))
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "elevation (m)",
			XValues: times,
			YValues: eles,
		},
	}

	if len(photos) > 0 {
		markerX := make([]time.Time, len(photos))
		markerY := make([]float64, len(photos))
		for i, rec := range photos {
			markerX[i] = rec.CaptureTime
			markerY[i] = minEle
		}
		series = append(series, chart.TimeSeries{
			Name: "photo captures",
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    chart.ColorRed,
			},
			XValues: markerX,
			YValues: markerY,
		})
	}

	graph := chart.Chart{
		Title:  "Telemetry elevation vs. photo capture times",
		Width:  1280,
		Height: 480,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("15:04:05"),
		},
		Series: series,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render flight-path plot: %w", err)
	}
	return nil
}

// RenderFile writes the chart PNG to path.
func RenderFile(path string, tel domain.TelemetryTable, photos domain.PhotoTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	if err := Render(f, tel, photos); err != nil {
		f.Close()
		os.Remove(path) // do not leave a half-written PNG behind
		return err
	}
	return f.Close()
}
