package main

import (
	"flag"

	"github.com/wfunc/cardroom/config"
	"github.com/wfunc/cardroom/logger"
	"github.com/wfunc/cardroom/persistence"
	"github.com/wfunc/cardroom/server"
)

func main() {
	dev := flag.Bool("dev", false, "use the console log encoder")
	flag.Parse()

	if *dev {
		logger.InitDevelopment()
	} else {
		logger.Init()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to open game-record store: %v", err)
	}
	defer store.Close()

	gameServer := server.NewGameServer(cfg, store)

	logger.Log.Infof("Starting card room server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

func openStore(cfg *config.Config) (persistence.Store, error) {
	pg := cfg.Database.Postgres
	switch cfg.Database.Driver {
	case "postgres":
		return persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	case "gorm":
		return persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		return persistence.NewMemory(), nil
	}
}
