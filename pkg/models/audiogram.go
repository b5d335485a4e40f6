package models

// AudiogramAxis describes one chart axis
type AudiogramAxis struct {
	Label    string `json:"label" doc:"Axis label"`
	Type     string `json:"type" enum:"category,number" doc:"Axis scale type"`
	Min      int    `json:"min" doc:"Lowest axis value"`
	Max      int    `json:"max" doc:"Highest axis value"`
	Ticks    []int  `json:"ticks" doc:"Fixed tick positions"`
	Reversed bool   `json:"reversed" doc:"Whether lower values are drawn higher"`
}

// AudiogramChart is everything a renderer needs to plot an audiogram
type AudiogramChart struct {
	Title     string           `json:"title" doc:"Chart title"`
	Frequency AudiogramAxis    `json:"frequency_axis" doc:"Horizontal axis"`
	Level     AudiogramAxis    `json:"level_axis" doc:"Vertical axis"`
	Series    []ThresholdPoint `json:"series" doc:"Points sorted by ascending frequency"`
}
