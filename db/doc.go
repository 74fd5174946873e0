// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores polls and payments.

# Connections

Open connects to PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite):

	conn, err := db.Open(ctx, db.TypeSQLite, "file:pollgate.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}
	store := db.NewStore(conn, db.TypeSQLite, logger)

SQLite connections carry foreign_keys, busy_timeout, WAL and synchronous
pragmas and are limited to one open connection.

# Tables

  - poll: Poll metadata, moderation flag and vote total
  - poll_option: Options per poll with their counters
  - poll_voter: One row per identity that voted on a poll
  - payment: Entitlement records, unique by external payment id

# Relationships

	poll 1──* poll_option
	poll 1──* poll_voter

# Votes

Store.CastVote runs in one transaction: lock the poll row, check the
window, insert the voter row, increment the option and the total. The
(poll_id, voter_id) primary key turns a racing second vote into
models.ErrAlreadyVoted. On PostgreSQL the poll row is locked with
SELECT ... FOR UPDATE; on SQLite the single connection serializes writers.

# Memory

MemoryStore implements the same repositories in process memory, with one
mutex per poll. It backs -t memory and the engine tests.
*/
package db
