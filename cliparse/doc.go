// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL URL or SQLite path (required unless memory)
  - DatabaseType: postgres, sqlite or memory (default: sqlite)
  - JWTSecret: HS256 secret used to verify identity tokens (required)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-jwt-secret   Identity token secret

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	JWT_SECRET    → -jwt-secret

CLI flags take precedence over environment variables. LoadEnvFile reads a
.env file first; values already in the environment win over the file.

# Example

	_ = cliparse.LoadEnvFile(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
*/
package cliparse
