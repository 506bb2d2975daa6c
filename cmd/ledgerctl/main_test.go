// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/journal"
	"github.com/danielhkuo/quickly-vote/ledger"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// seedJournal writes a small election to a sqlite file and returns its path.
func seedJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	conn, err := db.Open(ctx, db.TypeSQLite, path)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.CreateSchema(conn))

	now := t0
	l, err := ledger.New(ledger.Config{
		Admin: "0xadmin",
		Clock: ledger.ClockFunc(func() time.Time { return now }),
		Log:   journal.New(conn),
	})
	require.NoError(t, err)

	id, err := l.CreateSession(ctx, "0xadmin", "Election", t0, t0.Add(time.Hour), []string{"Alice", "Bob"})
	require.NoError(t, err)
	_, err = l.CreateSession(ctx, "0xadmin", "Quiet", t0, t0.Add(time.Hour), []string{"Carol"})
	require.NoError(t, err)
	n, err := l.RegisterVoters(ctx, "0xadmin", []ledger.Address{"0xv1", "0xv2", "0xv3"})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, l.StartSession(ctx, "0xadmin", id))
	require.NoError(t, l.Vote(ctx, "0xv1", id, 2))
	require.NoError(t, l.Vote(ctx, "0xv2", id, 2))
	require.NoError(t, l.Vote(ctx, "0xv3", id, 1))
	// 2 created + 3 registered + 1 started + 3 votes
	require.Equal(t, uint64(9), l.Seq())
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(strings.NewReader(stdin))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVerify(t *testing.T) {
	path := seedJournal(t)

	out, err := execute(t, "", "--db", path, "verify")

	require.NoError(t, err)
	assert.Contains(t, out, "verified 9 events across 2 sessions")
	assert.Contains(t, out, `session 1 "Election": started, outside window, 3 votes, 2 candidates, winner Bob with 2`)
	assert.Contains(t, out, `session 2 "Quiet": inactive, 0 votes, 1 candidates, winner No votes cast`)
}

func TestVerifyEmptyJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")

	out, err := execute(t, "", "--db", path, "--db-type", "sqlite", "verify")

	require.NoError(t, err)
	assert.Equal(t, "journal is empty\n", out)
}

func TestVerifyRequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "", "verify")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestEvents(t *testing.T) {
	path := seedJournal(t)

	tests := []struct {
		name      string
		args      []string
		wantCount string
		wantLines []string
	}{
		{
			name:      "all",
			args:      nil,
			wantCount: "9 events",
			wantLines: []string{`session=1 name="Election"`, "voter=0xv1"},
		},
		{
			name:      "by session",
			args:      []string{"--session", "1"},
			wantCount: "5 events",
			wantLines: []string{"session=1 candidate=2 voter=0xv2"},
		},
		{
			name:      "by type with limit",
			args:      []string{"--type", "vote.cast", "--limit", "2"},
			wantCount: "2 events",
			wantLines: []string{"voter=0xv1", "voter=0xv2"},
		},
		{
			name:      "after cursor",
			args:      []string{"--after", "8"},
			wantCount: "1 events",
			wantLines: []string{"voter=0xv3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--db", path, "events"}, tt.args...)
			out, err := execute(t, "", args...)

			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(out, tt.wantCount+"\n"), "output %q", out)
			for _, line := range tt.wantLines {
				assert.Contains(t, out, line)
			}
		})
	}
}

func TestEventsUnknownType(t *testing.T) {
	_, err := execute(t, "", "--db", ":memory:", "events", "--type", "poll.closed")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestSign(t *testing.T) {
	want := auth.SignCaller("0xalice", "pepper")

	t.Run("flag", func(t *testing.T) {
		out, err := execute(t, "", "sign", "--caller-salt", "pepper", "0xalice")
		require.NoError(t, err)
		assert.Equal(t, want+"\n", out)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("CALLER_SALT", "pepper")
		out, err := execute(t, "", "sign", "0xalice")
		require.NoError(t, err)
		assert.Equal(t, want+"\n", out)
	})

	t.Run("prompt", func(t *testing.T) {
		t.Setenv("CALLER_SALT", "")
		out, err := execute(t, "pepper\n", "sign", "0xalice")
		require.NoError(t, err)
		assert.Equal(t, want+"\n", out)
		assert.NoError(t, auth.VerifyCaller("0xalice", strings.TrimSpace(out), "pepper"))
	})

	t.Run("empty salt", func(t *testing.T) {
		t.Setenv("CALLER_SALT", "")
		_, err := execute(t, "\n", "sign", "0xalice")
		require.Error(t, err)
	})

	t.Run("missing address", func(t *testing.T) {
		_, err := execute(t, "", "sign")
		require.Error(t, err)
	})
}
