// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote is a voting ledger: an administrator opens time-boxed voting
sessions with named candidates, registered voters cast one vote per session,
and anyone can read the live tally. Every committed change is an event in an
append-only journal, and the in-memory ledger is rebuilt from it on start.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=quickly-vote.db ADMIN_ADDRESS=0xadmin CALLER_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin 0xadmin

A .env file in the working directory is loaded first; variables already set
in the environment take precedence.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_ADDRESS (-admin): The administrator identity
  - CALLER_SALT (-caller-salt): Secret for caller signatures

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

# Architecture

  - ledger: Sessions, candidates, voters, votes and tallies
  - journal: Append-only event storage
  - event: In-process event bus
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Caller signatures
  - db: Connection and schema
  - cliparse: Configuration parsing

The ledgerctl command (cmd/ledgerctl) reads the same journal offline.
*/
package main
