package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/gesturectl/internal/store"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.Sessions().List(sessionsLimit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			cmd.Println("no sessions recorded")
			return nil
		}

		for _, s := range sessions {
			ended := "running"
			if s.EndedAt != nil {
				ended = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
			}
			cmd.Printf("%s  %s  %-9s  %d gestures\n",
				s.ID, s.StartedAt.Format(time.RFC3339), ended, s.Total)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the journal of one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.Sessions().GetByID(args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("session %s not found", args[0])
			}
			return err
		}
		events, err := st.Events().ListBySession(s.ID)
		if err != nil {
			return err
		}

		cmd.Printf("Session %s\n", s.ID)
		cmd.Printf("Started: %s\n", s.StartedAt.Format(time.RFC3339))
		if s.EndedAt != nil {
			cmd.Printf("Ended: %s\n", s.EndedAt.Format(time.RFC3339))
		}
		cmd.Printf("Gestures: %d\n", s.Total)
		for _, e := range events {
			cmd.Printf("  %s  %-8s  %s\n", e.FiredAt.Format("15:04:05.000"), e.Kind, e.Label)
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "maximum sessions to list")
	sessionsCmd.AddCommand(sessionsShowCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Path == "" {
		return nil, errors.New("storage is disabled (storage.path is empty)")
	}
	return store.New(cfg.Storage.Path)
}
