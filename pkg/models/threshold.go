package models

import (
	"slices"
	"time"
)

// ThresholdPoint represents the hearing threshold found at a single test frequency
type ThresholdPoint struct {
	Frequency int `json:"frequency" doc:"Test frequency in Hz"`
	Level     int `json:"decibel" doc:"Hearing threshold in dB HL"`
}

// HearingTestResult represents a saved audiogram (for internal use and history listings)
type HearingTestResult struct {
	ID         string           `json:"id" doc:"Result unique identifier"`
	CreatedAt  time.Time        `json:"created_at" doc:"When the test was saved"`
	Thresholds []ThresholdPoint `json:"results" doc:"Thresholds sorted by ascending frequency"`
}

// SortThresholdPoints returns a copy of points ordered by ascending frequency
func SortThresholdPoints(points []ThresholdPoint) []ThresholdPoint {
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b ThresholdPoint) int {
		return a.Frequency - b.Frequency
	})
	return sorted
}

// SortResultsNewestFirst orders saved results by creation time, most recent first
func SortResultsNewestFirst(results []*HearingTestResult) {
	slices.SortStableFunc(results, func(a, b *HearingTestResult) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
