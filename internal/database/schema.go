package database

// schema is the full DDL for the application. Every statement is
// idempotent so it can run on each startup. The unique index on
// clients.email is the source of truth for email uniqueness; the
// service-level pre-check is advisory only. The secondary indexes on
// name and created_at back the search and default sort paths and are
// not correctness-bearing.
const schema = `
CREATE TABLE IF NOT EXISTS clients (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT      NOT NULL,
    email      TEXT      NOT NULL,
    phone      TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_email ON clients (email);
CREATE INDEX IF NOT EXISTS idx_clients_name ON clients (name);
CREATE INDEX IF NOT EXISTS idx_clients_created_at ON clients (created_at);

CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT      NOT NULL,
    password_hash TEXT      NOT NULL,
    email         TEXT,
    full_name     TEXT,
    is_active     BOOLEAN   NOT NULL DEFAULT 1,
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (username);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email) WHERE email IS NOT NULL;
`
