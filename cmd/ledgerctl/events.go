// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-vote/journal"
	"github.com/danielhkuo/quickly-vote/ledger"
)

func eventsCommand(opts *globalOptions) *cobra.Command {
	var q journal.Query
	var eventType string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List journal events in commit order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventType != "" {
				q.Type = ledger.EventType(eventType)
				if !ledger.KnownEventType(q.Type) {
					return fmt.Errorf("unknown event type %q", eventType)
				}
			}

			conn, err := opts.openJournal(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			events, err := journal.New(conn).List(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, evt := range events {
				printEvent(out, evt, time.Now())
			}
			fmt.Fprintf(out, "%s events\n", humanize.Comma(int64(len(events))))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&q.SessionID, "session", 0, "only events of this session")
	cmd.Flags().Uint64Var(&q.After, "after", 0, "only events after this sequence number")
	cmd.Flags().IntVar(&q.Limit, "limit", journal.DefaultLimit, "maximum number of events")
	cmd.Flags().StringVar(&eventType, "type", "", "only events of this type")
	return cmd
}

func printEvent(w io.Writer, evt ledger.Event, now time.Time) {
	fmt.Fprintf(w, "%6d  %-17s  %-14s  %s", evt.Seq, evt.Type, humanize.RelTime(evt.Time, now, "ago", "from now"), evt.Actor)
	switch evt.Type {
	case ledger.EventSessionCreated:
		fmt.Fprintf(w, "  session=%d name=%q", evt.SessionID, evt.Name)
	case ledger.EventSessionStarted, ledger.EventSessionEnded:
		fmt.Fprintf(w, "  session=%d", evt.SessionID)
	case ledger.EventCandidateAdded, ledger.EventCandidateUpdated:
		fmt.Fprintf(w, "  session=%d candidate=%d name=%q", evt.SessionID, evt.CandidateID, evt.Name)
	case ledger.EventCandidateRemoved:
		fmt.Fprintf(w, "  session=%d candidate=%d", evt.SessionID, evt.CandidateID)
	case ledger.EventVoteCast:
		fmt.Fprintf(w, "  session=%d candidate=%d voter=%s", evt.SessionID, evt.CandidateID, evt.Voter)
	case ledger.EventVoterRegistered:
		fmt.Fprintf(w, "  voter=%s", evt.Voter)
	}
	fmt.Fprintln(w)
}
