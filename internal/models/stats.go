package models

// DefaultTargetMinutes is the shared daily goal when no custom target is set.
const DefaultTargetMinutes = 120

// SettingCustomTarget is the per-user daily target override, in minutes.
const SettingCustomTarget = "customTarget"

// StreakInfo holds consecutive-complete-day counts for one user.
type StreakInfo struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// CalendarDay is one cell of the activity calendar.
type CalendarDay struct {
	Date        string `json:"date"`
	Minutes     int    `json:"minutes"`
	IsCompleted bool   `json:"isCompleted"`
}

// HistoryStats are trailing-window averages plus the all-time total.
type HistoryStats struct {
	WeeklyAvg  float64 `json:"weeklyAvg"`
	MonthlyAvg float64 `json:"monthlyAvg"`
	TotalHours float64 `json:"totalHours"`
}

// DayStatus classifies a single day against the target.
type DayStatus string

const (
	DayCompleted DayStatus = "completed"
	DayPartial   DayStatus = "partial"
	DayMissed    DayStatus = "missed"
)

// DayStats summarizes one user's progress on one day.
type DayStats struct {
	TotalMinutes     int       `json:"totalMinutes"`
	RemainingMinutes int       `json:"remainingMinutes"`
	Status           DayStatus `json:"status"`
	Percentage       int       `json:"percentage"`
}
