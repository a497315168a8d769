package models

// Slot is a candidate bookable interval on a court for a given date,
// computed on demand and never persisted.
type Slot struct {
	Start      int     `json:"start"`           // Minutes from midnight
	End        int     `json:"end"`             // Minutes from midnight
	StartClock string  `json:"startTime"`       // "HH:MM" rendering of Start
	EndClock   string  `json:"endTime"`         // "HH:MM" rendering of End
	Available  bool    `json:"available"`
	Price      float64 `json:"price,omitempty"` // Quoted charge for the slot
}
