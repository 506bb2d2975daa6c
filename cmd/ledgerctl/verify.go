// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-vote/journal"
	"github.com/danielhkuo/quickly-vote/ledger"
)

func verifyCommand(opts *globalOptions) *cobra.Command {
	var admin string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay the journal and check ledger invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := opts.openJournal(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			store := journal.New(conn)
			events, err := store.Load(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "journal is empty")
				return nil
			}

			if admin == "" {
				admin = os.Getenv("ADMIN_ADDRESS")
			}
			if admin == "" {
				admin = string(inferAdmin(events))
			}
			l, err := ledger.New(ledger.Config{
				Admin: ledger.Address(admin),
				Log:   store,
			})
			if err != nil {
				return err
			}

			if err := l.Replay(events); err != nil {
				return fmt.Errorf("replay failed: %w", err)
			}
			if err := l.CheckInvariants(); err != nil {
				return fmt.Errorf("invariants violated: %w", err)
			}
			slog.Debug("journal replayed", "events", len(events), "seq", l.Seq())

			fmt.Fprintf(out, "verified %s events across %s sessions\n",
				humanize.Comma(int64(len(events))), humanize.Comma(int64(l.SessionCount())))
			for _, id := range l.ListAllSessions() {
				sess, err := l.Session(id)
				if err != nil {
					return err
				}
				res, err := l.Winner(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "session %d %q: %s, %s votes, %d candidates, winner %s\n",
					sess.ID, sess.Name, sessionState(sess, l.IsSessionActive(id)),
					humanize.Comma(int64(sess.TotalVotes)), sess.CandidateCount, describeResult(res))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&admin, "admin", "", "administrator address (default $ADMIN_ADDRESS, else the creator of the first session)")
	return cmd
}

// inferAdmin returns the actor of the first administrative event. Replay
// does not check authorization, so the admin only matters for voter counts.
func inferAdmin(events []ledger.Event) ledger.Address {
	for _, evt := range events {
		if evt.Type == ledger.EventSessionCreated && evt.Actor.Valid() {
			return evt.Actor
		}
	}
	return "ledgerctl"
}

func sessionState(sess ledger.Session, activeNow bool) string {
	switch {
	case activeNow:
		return "open"
	case sess.Active:
		return "started, outside window"
	default:
		return "inactive"
	}
}

func describeResult(res ledger.Result) string {
	switch {
	case res.NoVotes:
		return res.Name
	case res.IsTie:
		return fmt.Sprintf("%s (tie at %d)", res.Name, res.VoteCount)
	case res.Name == "":
		return "none among active candidates"
	default:
		return fmt.Sprintf("%s with %d", res.Name, res.VoteCount)
	}
}
