// Package database persists bot subscribers and a forecast-run archive in
// PostgreSQL. The archive keeps one row per computed night so past scores
// can be compared against how the night actually turned out.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Subscriber is one bot user with a stored observing location.
type Subscriber struct {
	UserID    int64
	ChatID    int64
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}

// ForecastRun archives the headline result of one computed night.
type ForecastRun struct {
	ID         int64
	RunAt      time.Time
	NightDate  time.Time
	Latitude   float64
	Longitude  float64
	TopObject  string
	TopScore   float64
	CloudCover *float64 // nil when weather was unavailable
	MoonIllum  float64
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS subscribers (
			user_id BIGINT PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS forecast_runs (
			id BIGSERIAL PRIMARY KEY,
			run_at TIMESTAMP NOT NULL,
			night_date DATE NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			top_object TEXT NOT NULL,
			top_score DOUBLE PRECISION NOT NULL,
			cloud_cover DOUBLE PRECISION,
			moon_illumination DOUBLE PRECISION NOT NULL
		)
	`)
	return err
}

// UpsertSubscriber stores or updates a user's observing location.
func (db *DB) UpsertSubscriber(userID, chatID int64, latitude, longitude float64) (*Subscriber, error) {
	sub := &Subscriber{
		UserID:    userID,
		ChatID:    chatID,
		Latitude:  latitude,
		Longitude: longitude,
		CreatedAt: time.Now(),
	}

	_, err := db.Exec(`
		INSERT INTO subscribers (user_id, chat_id, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude
	`, sub.UserID, sub.ChatID, sub.Latitude, sub.Longitude, sub.CreatedAt)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// GetSubscriber retrieves a user's stored location, or nil when the user
// has not registered one.
func (db *DB) GetSubscriber(userID int64) (*Subscriber, error) {
	var sub Subscriber

	err := db.QueryRow(`
		SELECT user_id, chat_id, latitude, longitude, created_at
		FROM subscribers
		WHERE user_id = $1
	`, userID).Scan(&sub.UserID, &sub.ChatID, &sub.Latitude, &sub.Longitude, &sub.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

// ListSubscribers returns every registered subscriber.
func (db *DB) ListSubscribers() ([]Subscriber, error) {
	rows, err := db.Query(`
		SELECT user_id, chat_id, latitude, longitude, created_at
		FROM subscribers
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var sub Subscriber
		if err := rows.Scan(&sub.UserID, &sub.ChatID, &sub.Latitude, &sub.Longitude, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// DeleteSubscriber removes a user's registration.
func (db *DB) DeleteSubscriber(userID int64) error {
	_, err := db.Exec(`DELETE FROM subscribers WHERE user_id = $1`, userID)
	return err
}

// RecordForecastRun archives one computed night.
func (db *DB) RecordForecastRun(run ForecastRun) error {
	var cloud sql.NullFloat64
	if run.CloudCover != nil {
		cloud = sql.NullFloat64{Float64: *run.CloudCover, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO forecast_runs (
			run_at, night_date, latitude, longitude,
			top_object, top_score, cloud_cover, moon_illumination
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.RunAt, run.NightDate, run.Latitude, run.Longitude,
		run.TopObject, run.TopScore, cloud, run.MoonIllum)
	return err
}

// RecentForecastRuns returns the newest archived runs for a location.
func (db *DB) RecentForecastRuns(latitude, longitude float64, limit int) ([]ForecastRun, error) {
	rows, err := db.Query(`
		SELECT id, run_at, night_date, latitude, longitude,
		       top_object, top_score, cloud_cover, moon_illumination
		FROM forecast_runs
		WHERE latitude = $1 AND longitude = $2
		ORDER BY run_at DESC
		LIMIT $3
	`, latitude, longitude, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ForecastRun
	for rows.Next() {
		var run ForecastRun
		var cloud sql.NullFloat64
		if err := rows.Scan(&run.ID, &run.RunAt, &run.NightDate, &run.Latitude, &run.Longitude,
			&run.TopObject, &run.TopScore, &cloud, &run.MoonIllum); err != nil {
			return nil, err
		}
		if cloud.Valid {
			run.CloudCover = &cloud.Float64
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
