// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pollgate API server.

pollgate runs time-boxed single-choice polls. Creating a poll requires a
recent completed payment; every identity may vote once per poll; tallies
report counts and rounded percentages.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	JWT_SECRET=... DATABASE_URL=file:pollgate.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

A .env file in the working directory is read first.

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): HS256 secret for identity tokens
  - DATABASE_URL (-d): PostgreSQL URL or SQLite path, unless -t memory

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres, sqlite or memory (default: sqlite)

# Architecture

  - engine: Poll lifecycle, visibility, votes and entitlement
  - handlers: HTTP request handlers (polls, voting, results, payments)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, caller resolution, JSON helpers
  - models: Domain, request and response types and errors
  - auth: Identity tokens and permission checks
  - db: PostgreSQL, SQLite and in-memory storage
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
