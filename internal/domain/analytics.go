package domain

// DailyCount is the number of uploads on one UTC calendar day.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// UploadAnalytics summarizes gallery uploads for the admin dashboard.
type UploadAnalytics struct {
	TotalImages       int          `json:"totalImages"`
	UploadedToday     int          `json:"uploadedToday"`
	UploadedYesterday int          `json:"uploadedYesterday"`
	Last7Days         []DailyCount `json:"last7Days"` // Oldest first, today last
}
