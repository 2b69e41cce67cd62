// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/wfunc/cardroom/models"
)

// PostgreSQL is the database/sql Store implementation.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}
	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            winner VARCHAR(255) NOT NULL,
            loser VARCHAR(255),
            turns INT NOT NULL DEFAULT 0,
            duration_seconds INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_game_records_winner ON game_records (winner)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_game_records_loser ON game_records (loser)`)
	return err
}

func (p *PostgreSQL) SaveGameRecord(record models.GameRecord) error {
	_, err := p.db.Exec(`
        INSERT INTO game_records (room_id, winner, loser, turns, duration_seconds)
        VALUES ($1, $2, $3, $4, $5)`,
		record.RoomID, record.Winner, record.Loser, record.Turns,
		int(record.Duration.Seconds()))
	return err
}

func (p *PostgreSQL) GetPlayerStats(nick string) (models.PlayerStats, error) {
	stats := models.PlayerStats{Nick: nick}
	err := p.db.QueryRow(`
        SELECT
            COUNT(*) FILTER (WHERE winner = $1) AS wins,
            COUNT(*) FILTER (WHERE loser = $1) AS losses
        FROM game_records
        WHERE winner = $1 OR loser = $1`, nick).Scan(&stats.Wins, &stats.Losses)
	if err != nil {
		return stats, err
	}
	stats.Games = stats.Wins + stats.Losses
	if stats.Games == 0 {
		return stats, ErrRecordNotFound
	}
	return stats, nil
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
