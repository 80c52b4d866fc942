package database

import (
	"database/sql"
	"fmt"
	"time"

	// postgres driver
	_ "github.com/lib/pq"
)

// companies table schema:
//
// CREATE TABLE IF NOT EXISTS companies (
//   id                  CHAR(27) NOT NULL,
//   company_name        VARCHAR(255) NOT NULL,
//   industry            VARCHAR(255) NOT NULL,
//   region              VARCHAR(255) NOT NULL,
//   address             VARCHAR(255),
//   employee_count      INTEGER,
//   description         TEXT,
//   website_url         VARCHAR(255),
//   x_url               VARCHAR(255),
//   x_followers         INTEGER,
//   insta_url           VARCHAR(255),
//   insta_followers     INTEGER,
//   tiktok_url          VARCHAR(255),
//   tiktok_followers    INTEGER,
//   youtube_url         VARCHAR(255),
//   youtube_subscribers INTEGER,
//   facebook_url        VARCHAR(255),
//   facebook_followers  INTEGER,
//   line_url            VARCHAR(255),
//   line_friends        INTEGER,
//   keyword1            VARCHAR(255),
//   keyword2            VARCHAR(255),
//   keyword3            VARCHAR(255),
//   keyword4            VARCHAR(255),
//   keyword5            VARCHAR(255),
//   created_at          TIMESTAMP NOT NULL,
//   PRIMARY KEY (id)
// );
// CREATE INDEX company_name_idx ON companies (company_name);
// CREATE INDEX industry_idx ON companies (industry);

// purchase_event table schema:
//
// CREATE TABLE IF NOT EXISTS purchase_event (
//   stripe_session_id VARCHAR(255) NOT NULL,
//   amount            INTEGER NOT NULL,
//   currency          CHAR(3) NOT NULL,
//   item_count        INTEGER NOT NULL,
//   filters           TEXT NOT NULL,
//   created_at        TIMESTAMP NOT NULL,
//   completed_at      TIMESTAMP,
//   PRIMARY KEY (stripe_session_id)
// );

// search_event table schema:
//
// CREATE TABLE IF NOT EXISTS search_event (
//   session_id VARCHAR(255) NOT NULL,
//   filters    TEXT NOT NULL,
//   results    INTEGER NOT NULL,
//   created_at TIMESTAMP NOT NULL
// );
// CREATE INDEX search_event_created_at_idx ON search_event (created_at);

// GetDbConn tries to establish a connection to postgres and return the connection handler
func GetDbConn(user, password, host, port, name, sslmode string) (*sql.DB, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, name, sslmode))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	return db, nil
}

// CloseDbConn closes db conn
func CloseDbConn(conn *sql.DB) {
	conn.Close()
}

// SavePurchaseEvent records a created checkout session so the webhook
// can later mark it completed.
func SavePurchaseEvent(conn *sql.DB, sessionID string, amount int64, currency string, itemCount int, filters string) error {
	stmt := `INSERT INTO purchase_event (stripe_session_id, amount, currency, item_count, filters, created_at) VALUES ($1, $2, $3, $4, $5, NOW())`
	_, err := conn.Exec(stmt, sessionID, amount, currency, itemCount, filters)
	return err
}

// CompletePurchaseEvent stamps the purchase as paid. Calling it twice
// for the same session keeps the earliest completion time.
func CompletePurchaseEvent(conn *sql.DB, sessionID string) error {
	stmt := `UPDATE purchase_event SET completed_at = NOW() WHERE stripe_session_id = $1 AND completed_at IS NULL`
	_, err := conn.Exec(stmt, sessionID)
	return err
}

// TrackSearchEvent saves a single search for later analysis.
func TrackSearchEvent(conn *sql.DB, sessionID, filters string, results int) error {
	stmt := `INSERT INTO search_event (session_id, filters, results, created_at) VALUES ($1, $2, $3, NOW())`
	_, err := conn.Exec(stmt, sessionID, filters, results)
	return err
}
