package db

import (
	"database/sql"
	"fmt"
)

// RunMigrations executes all database migrations
func RunMigrations(db *DB) error {
	// Check if schema_version table exists
	var tableExists bool
	err := db.QueryRow(`
		SELECT COUNT(*) > 0
		FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("failed to check schema_version table: %w", err)
	}

	if !tableExists {
		// First time initialization
		if err := initializeSchema(db); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		return nil
	}

	// Get current version
	var currentVersion int
	err = db.QueryRow(`
		SELECT version FROM schema_version
		ORDER BY applied_at DESC LIMIT 1
	`).Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Apply migrations if needed
	// Currently only version 1 exists
	if currentVersion < 1 {
		return fmt.Errorf("invalid schema version: %d", currentVersion)
	}

	return nil
}

// initializeSchema creates all tables for a new database
func initializeSchema(db *DB) error {
	tx, err := db.BeginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		schemaVersionTable,
		usersTable,
		usersIndexes,
		otpsTable,
		otpsIndexes,
		projectsTable,
		gondolasTable,
		gondolasIndexes,
		documentsTable,
		documentsIndexes,
		shiftRecordsTable,
		shiftRecordsIndexes,
		repairLogsTable,
		repairLogsIndexes,
		deliveryOrdersTable,
		deliveryOrdersIndexes,
		inspectionsTable,
		inspectionsIndexes,
		subscriptionsTable,
		subscriptionsIndexes,
		alertLogsTable,
		alertLogsIndexes,
		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range statements {
		if err := execSQL(tx, stmt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// execSQL executes a SQL statement
func execSQL(tx *sql.Tx, query string) error {
	_, err := tx.Exec(query)
	return err
}

// Schema definitions
const (
	schemaVersionTable = `
CREATE TABLE schema_version (
    version INTEGER NOT NULL,
    applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	usersTable = `
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    email         TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    verified      INTEGER NOT NULL DEFAULT 0,
    totp_secret   TEXT NOT NULL DEFAULT '',
    totp_enabled  INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	usersIndexes = `
CREATE INDEX idx_users_email ON users(email)`

	otpsTable = `
CREATE TABLE otps (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL,
    code       TEXT NOT NULL,
    purpose    TEXT NOT NULL CHECK (purpose IN ('SIGNUP', 'FORGOT_PASSWORD')),
    expires_at DATETIME NOT NULL,
    verified   INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`

	otpsIndexes = `
CREATE INDEX idx_otps_user_id ON otps(user_id);
CREATE INDEX idx_otps_expires_at ON otps(expires_at);
CREATE INDEX idx_otps_created_at ON otps(created_at)`

	projectsTable = `
CREATE TABLE projects (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    name         TEXT NOT NULL,
    client       TEXT NOT NULL,
    site_address TEXT,
    start_date   DATETIME,
    end_date     DATETIME,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	gondolasTable = `
CREATE TABLE gondolas (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    serial_number TEXT NOT NULL UNIQUE,
    project_id    INTEGER,
    location      TEXT,
    status        TEXT NOT NULL DEFAULT 'idle',
    installed_at  DATETIME,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE SET NULL
)`

	gondolasIndexes = `
CREATE INDEX idx_gondolas_serial ON gondolas(serial_number);
CREATE INDEX idx_gondolas_project_id ON gondolas(project_id);
CREATE INDEX idx_gondolas_status ON gondolas(status)`

	documentsTable = `
CREATE TABLE documents (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    gondola_id   INTEGER NOT NULL,
    title        TEXT NOT NULL,
    category     TEXT,
    expiry       DATETIME,
    file_name    TEXT,
    content_type TEXT,
    file_data    BLOB,
    uploaded_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (gondola_id) REFERENCES gondolas(id) ON DELETE CASCADE
)`

	documentsIndexes = `
CREATE INDEX idx_documents_gondola_id ON documents(gondola_id);
CREATE INDEX idx_documents_expiry ON documents(expiry)`

	shiftRecordsTable = `
CREATE TABLE shift_records (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    gondola_id    INTEGER NOT NULL,
    from_location TEXT NOT NULL,
    to_location   TEXT NOT NULL,
    moved_by      TEXT,
    note          TEXT,
    moved_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (gondola_id) REFERENCES gondolas(id) ON DELETE CASCADE
)`

	shiftRecordsIndexes = `
CREATE INDEX idx_shifts_gondola_id ON shift_records(gondola_id);
CREATE INDEX idx_shifts_moved_at ON shift_records(moved_at)`

	repairLogsTable = `
CREATE TABLE repair_logs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    gondola_id  INTEGER NOT NULL,
    description TEXT NOT NULL,
    reported_by TEXT,
    resolved    INTEGER NOT NULL DEFAULT 0,
    resolved_at DATETIME,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (gondola_id) REFERENCES gondolas(id) ON DELETE CASCADE
)`

	repairLogsIndexes = `
CREATE INDEX idx_repairs_gondola_id ON repair_logs(gondola_id);
CREATE INDEX idx_repairs_resolved ON repair_logs(resolved)`

	deliveryOrdersTable = `
CREATE TABLE delivery_orders (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    reference      TEXT NOT NULL UNIQUE,
    project_id     INTEGER NOT NULL,
    gondola_id     INTEGER,
    status         TEXT NOT NULL DEFAULT 'pending',
    items          TEXT,
    scheduled_date DATETIME,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
    FOREIGN KEY (gondola_id) REFERENCES gondolas(id) ON DELETE SET NULL
)`

	deliveryOrdersIndexes = `
CREATE INDEX idx_orders_reference ON delivery_orders(reference);
CREATE INDEX idx_orders_project_id ON delivery_orders(project_id);
CREATE INDEX idx_orders_status ON delivery_orders(status)`

	inspectionsTable = `
CREATE TABLE inspections (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    gondola_id   INTEGER NOT NULL,
    inspector    TEXT NOT NULL,
    result       TEXT NOT NULL CHECK (result IN ('pass', 'fail')),
    notes        TEXT,
    inspected_at DATETIME NOT NULL,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (gondola_id) REFERENCES gondolas(id) ON DELETE CASCADE
)`

	inspectionsIndexes = `
CREATE INDEX idx_inspections_gondola_id ON inspections(gondola_id);
CREATE INDEX idx_inspections_inspected_at ON inspections(inspected_at)`

	subscriptionsTable = `
CREATE TABLE cert_alert_subscriptions (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    gondola_id     INTEGER NOT NULL,
    email          TEXT NOT NULL,
    threshold_days INTEGER NOT NULL,
    frequency      TEXT NOT NULL CHECK (frequency IN ('daily', 'weekly', 'monthly')),
    last_sent      DATETIME,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,

    UNIQUE (gondola_id, email),
    FOREIGN KEY (gondola_id) REFERENCES gondolas(id) ON DELETE CASCADE
)`

	subscriptionsIndexes = `
CREATE INDEX idx_subscriptions_gondola_id ON cert_alert_subscriptions(gondola_id);
CREATE INDEX idx_subscriptions_email ON cert_alert_subscriptions(email)`

	alertLogsTable = `
CREATE TABLE alert_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    subscription_id INTEGER,
    gondola_id      INTEGER NOT NULL,
    email           TEXT NOT NULL,
    document_count  INTEGER NOT NULL DEFAULT 0,
    success         INTEGER NOT NULL,
    error_msg       TEXT,
    sent_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	alertLogsIndexes = `
CREATE INDEX idx_alert_logs_gondola_id ON alert_logs(gondola_id);
CREATE INDEX idx_alert_logs_sent_at ON alert_logs(sent_at)`
)
