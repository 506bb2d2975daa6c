// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminAddress: The administrator's caller address (required)
  - CallerSalt: Secret for caller signature HMAC (required)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-admin        Administrator address
	-caller-salt  Caller signature salt

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	ADMIN_ADDRESS → -admin
	CALLER_SALT   → -caller-salt

CLI flags take precedence over environment variables. LoadEnvFile reads
a .env file into the environment first without overriding anything that
is already set:

	if err := cliparse.LoadEnvFile(); err != nil {
		log.Fatal(err)
	}

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - ADMIN_ADDRESS must be provided
  - CALLER_SALT must be provided
*/
package cliparse
