// Package stats derives streaks, calendar activity and rolling averages from
// a session collection. Every function is pure: it takes the sessions, the
// user and an explicit "now", holds no state and does no I/O, so it is cheap
// enough to run on every render or poll tick.
package stats

import (
	"time"

	"github.com/yashwanthk/focusflow/internal/models"
	"github.com/yashwanthk/focusflow/internal/timeutil"
)

// minutesByDay folds one user's sessions into per-date totals.
func minutesByDay(sessions []models.Session, userID models.User) map[string]int {
	totals := make(map[string]int)
	for _, s := range sessions {
		if s.UserID == userID {
			totals[s.Date] += s.DurationMinutes
		}
	}
	return totals
}

// DailyTotal sums the user's duration minutes on one date.
func DailyTotal(sessions []models.Session, userID models.User, date string) int {
	total := 0
	for _, s := range sessions {
		if s.UserID == userID && s.Date == date {
			total += s.DurationMinutes
		}
	}
	return total
}

// Streaks computes the current and best runs of consecutive complete days.
// A day is complete when its total minutes meet the target; a day with no
// sessions is incomplete and breaks a run. Best scans from the user's
// first-ever session date through today. Current walks backward from today,
// except that an incomplete today is treated as still in progress: counting
// starts from yesterday instead.
func Streaks(sessions []models.Session, userID models.User, targetMinutes int, now time.Time) models.StreakInfo {
	totals := minutesByDay(sessions, userID)
	if len(totals) == 0 {
		return models.StreakInfo{}
	}

	first := ""
	for date := range totals {
		if first == "" || date < first {
			first = date
		}
	}

	firstDay, err := timeutil.ParseDate(first)
	if err != nil {
		return models.StreakInfo{}
	}
	today := timeutil.DateKey(now)

	best, run := 0, 0
	for cursor := firstDay; !cursor.After(now); cursor = cursor.AddDate(0, 0, 1) {
		if totals[timeutil.DateKey(cursor)] >= targetMinutes {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}

	current := 0
	cursor := now
	if totals[today] < targetMinutes {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for totals[timeutil.DateKey(cursor)] >= targetMinutes {
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return models.StreakInfo{Current: current, Best: best}
}

// CalendarActivity returns one entry per day for the windowDays ending today
// inclusive, oldest first.
func CalendarActivity(sessions []models.Session, userID models.User, targetMinutes, windowDays int, now time.Time) []models.CalendarDay {
	totals := minutesByDay(sessions, userID)
	days := make([]models.CalendarDay, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		key := timeutil.DateKey(now.AddDate(0, 0, -i))
		minutes := totals[key]
		days = append(days, models.CalendarDay{
			Date:        key,
			Minutes:     minutes,
			IsCompleted: minutes >= targetMinutes,
		})
	}
	return days
}

// HistoryAverages computes the mean of per-day totals over the trailing 7 and
// 30 calendar days plus the all-time total in hours. Days with no sessions
// contribute zero to the sum but the divisor stays the full window length.
func HistoryAverages(sessions []models.Session, userID models.User, now time.Time) models.HistoryStats {
	totals := minutesByDay(sessions, userID)

	windowAvg := func(days int) float64 {
		sum := 0
		for i := 0; i < days; i++ {
			sum += totals[timeutil.DateKey(now.AddDate(0, 0, -i))]
		}
		return float64(sum) / float64(days)
	}

	allTime := 0
	for _, minutes := range totals {
		allTime += minutes
	}

	return models.HistoryStats{
		WeeklyAvg:  windowAvg(7),
		MonthlyAvg: windowAvg(30),
		TotalHours: float64(allTime) / 60,
	}
}

// Day summarizes a single date against the target for progress display.
func Day(sessions []models.Session, userID models.User, date string, targetMinutes int) models.DayStats {
	total := DailyTotal(sessions, userID, date)
	remaining := targetMinutes - total
	if remaining < 0 {
		remaining = 0
	}
	status := models.DayMissed
	switch {
	case total >= targetMinutes:
		status = models.DayCompleted
	case total > 0:
		status = models.DayPartial
	}
	pct := 0
	if targetMinutes > 0 {
		pct = int(float64(total)/float64(targetMinutes)*100 + 0.5)
	}
	return models.DayStats{
		TotalMinutes:     total,
		RemainingMinutes: remaining,
		Status:           status,
		Percentage:       pct,
	}
}
