package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/yashwanthk/focusflow/internal/models"
	"github.com/yashwanthk/focusflow/internal/stats"
	"github.com/yashwanthk/focusflow/internal/timeutil"
)

func newAddCmd(configPath, user *string) *cobra.Command {
	var date, start, end, task, id string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a focus session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *user)
			if err != nil {
				return err
			}
			defer app.close()
			if err := app.requireUser(); err != nil {
				return err
			}

			if date == "" {
				date = timeutil.DateKey(time.Now())
			}
			sess, err := app.engine.SaveSession(context.Background(), models.SessionInput{
				ID:        id,
				UserID:    app.user,
				Date:      date,
				StartTime: start,
				EndTime:   end,
				Task:      task,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s %s–%s (%s) id=%s\n",
				sess.Date, sess.StartTime, sess.EndTime, timeutil.FormatDuration(sess.DurationMinutes), sess.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "session date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&start, "start", "", "start clock HH:mm")
	cmd.Flags().StringVar(&end, "end", "", "end clock HH:mm (before start means past midnight)")
	cmd.Flags().StringVar(&task, "task", "", "what was worked on")
	cmd.Flags().StringVar(&id, "id", "", "session id to edit (omit to create)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func newListCmd(configPath, user *string) *cobra.Command {
	var date string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *user)
			if err != nil {
				return err
			}
			defer app.close()

			sessions, err := app.engine.ListAllSessions()
			if err != nil {
				return err
			}
			for _, s := range sessions {
				if !all && app.user != "" && s.UserID != app.user {
					continue
				}
				if date != "" && s.Date != date {
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s–%s  %-8s  %-10s  %s\n",
					s.ID, s.Date, s.StartTime, s.EndTime,
					timeutil.FormatDuration(s.DurationMinutes), s.UserID, s.Task)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "only this date")
	cmd.Flags().BoolVar(&all, "all", false, "both users, not just the acting one")
	return cmd
}

func newDeleteCmd(configPath, user *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *user)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.engine.DeleteSession(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newStatsCmd(configPath, user *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Today's progress, streaks and rolling averages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *user)
			if err != nil {
				return err
			}
			defer app.close()
			if err := app.requireUser(); err != nil {
				return err
			}

			sessions, err := app.engine.ListAllSessions()
			if err != nil {
				return err
			}
			target, err := app.engine.TargetMinutes()
			if err != nil {
				return err
			}

			now := time.Now()
			today := timeutil.DateKey(now)
			day := stats.Day(sessions, app.user, today, target)
			streaks := stats.Streaks(sessions, app.user, target, now)
			history := stats.HistoryAverages(sessions, app.user, now)

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "today     %s / %s (%d%%, %s)\n",
				timeutil.FormatDuration(day.TotalMinutes), timeutil.FormatDuration(target),
				day.Percentage, day.Status)
			_, _ = fmt.Fprintf(out, "streak    current %d, best %d\n", streaks.Current, streaks.Best)
			_, _ = fmt.Fprintf(out, "weekly    %.1f min/day\n", history.WeeklyAvg)
			_, _ = fmt.Fprintf(out, "monthly   %.1f min/day\n", history.MonthlyAvg)
			_, _ = fmt.Fprintf(out, "all time  %.1f hours\n", history.TotalHours)
			return nil
		},
	}
}

func newCalendarCmd(configPath, user *string) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Activity for the trailing window, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *user)
			if err != nil {
				return err
			}
			defer app.close()
			if err := app.requireUser(); err != nil {
				return err
			}

			sessions, err := app.engine.ListAllSessions()
			if err != nil {
				return err
			}
			target, err := app.engine.TargetMinutes()
			if err != nil {
				return err
			}

			if days <= 0 {
				days = app.cfg.CalendarWindowDays
			}
			for _, day := range stats.CalendarActivity(sessions, app.user, target, days, time.Now()) {
				mark := " "
				if day.IsCompleted {
					mark = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", day.Date, mark, timeutil.FormatDuration(day.Minutes))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "window size in days (default from config)")
	return cmd
}

func newTargetCmd(configPath, user *string) *cobra.Command {
	return &cobra.Command{
		Use:   "target [minutes]",
		Short: "Show or set the daily target in minutes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *user)
			if err != nil {
				return err
			}
			defer app.close()
			if err := app.requireUser(); err != nil {
				return err
			}

			if len(args) == 0 {
				target, err := app.engine.TargetMinutes()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\n", target)
				return nil
			}

			minutes, err := strconv.Atoi(args[0])
			if err != nil || minutes <= 0 {
				return fmt.Errorf("target must be a positive number of minutes")
			}
			if err := app.engine.SetSetting(context.Background(), models.SettingCustomTarget, minutes); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "target set to %s\n", timeutil.FormatDuration(minutes))
			return nil
		},
	}
}

func newSyncCmd(configPath, user *string) *cobra.Command {
	var push bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull the other user's updates from the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *user)
			if err != nil {
				return err
			}
			defer app.close()

			ctx := context.Background()
			if push {
				if err := app.engine.PushAllToRemote(ctx); err != nil {
					return err
				}
			}
			if err := app.engine.PullFromRemote(ctx); err != nil {
				return err
			}
			last := app.engine.LastSyncTime()
			if last.IsZero() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "offline, nothing synced")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "synced at %s\n", last.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().BoolVar(&push, "push", false, "also upload every local session first")
	return cmd
}

func newResetCmd(configPath, user *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all local data (the server copy stays)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to wipe local data without --yes")
			}
			app, err := loadApp(*configPath, *user)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.engine.ClearAllData(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "local data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}
