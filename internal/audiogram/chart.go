// Package audiogram builds the chart payload handed to audiogram renderers.
package audiogram

import (
	"github.com/RMahshie/audioclear/internal/audiometry"
	"github.com/RMahshie/audioclear/pkg/models"
)

const (
	// LevelAxisMin and LevelAxisMax extend past the test range so that
	// thresholds at the ceiling are not drawn on the frame.
	LevelAxisMin  = -10
	LevelAxisMax  = 120
	levelTickStep = 10
)

// Build returns a chart for points. The series is always sorted by ascending
// frequency, whatever order points arrive in.
func Build(points []models.ThresholdPoint) models.AudiogramChart {
	series := models.SortThresholdPoints(points)
	if series == nil {
		series = []models.ThresholdPoint{}
	}

	freqs := audiometry.TestFrequencies
	return models.AudiogramChart{
		Title: "Audiogram Results",
		Frequency: models.AudiogramAxis{
			Label: "Frequency (Hz)",
			Type:  "category",
			Min:   freqs[0],
			Max:   freqs[len(freqs)-1],
			Ticks: append([]int(nil), freqs...),
		},
		Level: models.AudiogramAxis{
			Label:    "Hearing Level (dB HL)",
			Type:     "number",
			Min:      LevelAxisMin,
			Max:      LevelAxisMax,
			Ticks:    levelTicks(),
			Reversed: true,
		},
		Series: series,
	}
}

func levelTicks() []int {
	ticks := make([]int, 0, (LevelAxisMax-LevelAxisMin)/levelTickStep+1)
	for v := LevelAxisMin; v <= LevelAxisMax; v += levelTickStep {
		ticks = append(ticks, v)
	}
	return ticks
}
