package domain

// Geometry describes the status display. It is queried once when the
// status sink initializes and never changes afterwards.
type Geometry struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	Rows          int `json:"rows"`
	Cols          int `json:"cols"`
	PixelsPerTile int `json:"ppt"`
	FontWidth     int `json:"font_width"`
	FontHeight    int `json:"font_height"`
}
