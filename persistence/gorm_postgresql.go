// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wfunc/cardroom/models"
)

// GormPostgreSQL is the GORM-backed Store implementation.
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormGameRecord{}); err != nil {
		return nil, err
	}
	return &GormPostgreSQL{db: db}, nil
}

func (p *GormPostgreSQL) SaveGameRecord(record models.GameRecord) error {
	return p.db.Create(&models.GormGameRecord{
		RoomID:          record.RoomID,
		Winner:          record.Winner,
		Loser:           record.Loser,
		Turns:           record.Turns,
		DurationSeconds: int(record.Duration.Seconds()),
	}).Error
}

func (p *GormPostgreSQL) GetPlayerStats(nick string) (models.PlayerStats, error) {
	stats := models.PlayerStats{Nick: nick}

	var wins, losses int64
	if err := p.db.Model(&models.GormGameRecord{}).
		Where("winner = ?", nick).Count(&wins).Error; err != nil {
		return stats, err
	}
	if err := p.db.Model(&models.GormGameRecord{}).
		Where("loser = ?", nick).Count(&losses).Error; err != nil {
		return stats, err
	}

	stats.Wins = int(wins)
	stats.Losses = int(losses)
	stats.Games = stats.Wins + stats.Losses
	if stats.Games == 0 {
		return stats, ErrRecordNotFound
	}
	return stats, nil
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn atomically. Exposed for callers that batch writes.
func (p *GormPostgreSQL) Transaction(fn func(tx *gorm.DB) error) error {
	return p.db.Transaction(fn)
}
