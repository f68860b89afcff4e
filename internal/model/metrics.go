package model

// ChannelMetrics holds one channel's inputs and derived efficiency figures.
// ROI and ConversionRate are 0 when undefined; the Defined flags tell the two apart.
type ChannelMetrics struct {
	Channel           Channel         `json:"channel"`
	TargetPercentage  float64         `json:"target_percentage"`
	WeeklyTarget      float64         `json:"weekly_target"`
	AmountSpent       float64         `json:"amount_spent"`
	ActualSales       float64         `json:"actual_sales"`
	SiteVisits        int64           `json:"site_visits"`
	CallsMade         int64           `json:"calls_made"`
	ROI               float64         `json:"roi"`
	ROIDefined        bool            `json:"roi_defined"`
	ConversionRate    float64         `json:"conversion_rate"`
	ConversionDefined bool            `json:"conversion_defined"`
	Basis             ConversionBasis `json:"-"`
}

// MetricsView is the read model for one ledger: per-channel metrics and totals.
type MetricsView struct {
	WeekID       string                      `json:"week_id"`
	WeeklyTarget float64                     `json:"weekly_target"`
	Channels     [NumChannels]ChannelMetrics `json:"channels"`

	TotalActualSales     float64 `json:"total_actual_sales"`
	TotalAmountSpent     float64 `json:"total_amount_spent"`
	OverallROI           float64 `json:"overall_roi"`
	OverallROIDefined    bool    `json:"overall_roi_defined"`
	TargetAchievementPct float64 `json:"target_achievement_pct"`
	AchievementDefined   bool    `json:"achievement_defined"`

	Distribution Distribution `json:"distribution"`
}

// WeekPoint is one week's headline numbers for trend charts.
type WeekPoint struct {
	WeekID         string  `json:"week_id"`
	Target         float64 `json:"target"`
	ActualSales    float64 `json:"actual_sales"`
	AmountSpent    float64 `json:"amount_spent"`
	AchievementPct float64 `json:"achievement_pct"`
}
