package entity

import "time"

// Source is a web page the generative model cited.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Insight is a free-text summary of one report.
type Insight struct {
	Symbol      string    `json:"symbol"`
	Model       string    `json:"model"`
	Text        string    `json:"text"`
	Sources     []Source  `json:"sources"`
	GeneratedAt time.Time `json:"generated_at"`
}
