package model

const (
	TimeframeWeekly  = "weekly"
	TimeframeMonthly = "monthly"
	TimeframeAllTime = "allTime"
)

type SpotlightUser struct {
	User              ShortUser `json:"user"`
	CreatedAt         string    `json:"created_at,omitempty"`
	Influence         int       `json:"influence"`
	Rank              int       `json:"rank"`
	CompletedProjects int       `json:"completed_projects"`
	Heartbeats        int       `json:"heartbeats"`
}

type GetRankingsRequest struct {
	Limit     int    `json:"limit"`
	Timeframe string `json:"timeframe"`
}

type GetRankingsResponse struct {
	Rankings []SpotlightUser `json:"rankings"`
}

type GetSpotlightProfileRequest struct {
	UserID string `json:"user_id"`
}

type GetSpotlightProfileResponse struct {
	Profile SpotlightUser `json:"profile"`
}
