package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	StaticDir      string `mapstructure:"static_dir"`
}

type DatabaseConfig struct {
	// Driver selects the game-record store: "memory", "postgres" (database/sql)
	// or "gorm".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type GameConfig struct {
	HandSize int           `mapstructure:"hand_size"`
	RoomTTL  time.Duration `mapstructure:"room_ttl"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("database.driver", "memory")
	viper.SetDefault("game.hand_size", 13)
	viper.SetDefault("game.room_ttl", 30*time.Minute)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
