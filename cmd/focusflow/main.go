package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, user string

	root := &cobra.Command{
		Use:           "focusflow",
		Short:         "Offline-first focused-work tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to focusflow.yaml")
	root.PersistentFlags().StringVar(&user, "user", "", "acting user (yashwanth or lahari)")

	root.AddCommand(newAddCmd(&configPath, &user))
	root.AddCommand(newListCmd(&configPath, &user))
	root.AddCommand(newDeleteCmd(&configPath, &user))
	root.AddCommand(newStatsCmd(&configPath, &user))
	root.AddCommand(newCalendarCmd(&configPath, &user))
	root.AddCommand(newTargetCmd(&configPath, &user))
	root.AddCommand(newSyncCmd(&configPath, &user))
	root.AddCommand(newResetCmd(&configPath, &user))
	return root
}
