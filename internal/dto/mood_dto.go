package dto

// MoodRecordRequest registers today's well-being category.
type MoodRecordRequest struct {
	Mood string `json:"mood" validate:"required,oneof=good fair poor"`
}

// MoodSummaryResponse is the tally over the requested window. HasData
// distinguishes "no entries at all" from a window where every category
// happens to be zero.
type MoodSummaryResponse struct {
	Good       int     `json:"good"`
	Fair       int     `json:"fair"`
	Poor       int     `json:"poor"`
	HasData    bool    `json:"has_data"`
	Today      *string `json:"today"`
	WindowDays int     `json:"window_days"`
}
