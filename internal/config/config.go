package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env-default:"9090"`
	SocketPort        string `yaml:"socket-port" env-default:"9091"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env-default:"gamehub.db"`
	Game              Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Game struct {
	Komi            float64       `yaml:"komi" env-default:"0"`
	BoardSize       int           `yaml:"board-size" env-default:"19"`
	DiceMax         int           `yaml:"dice-max" env-default:"6"`
	StalemateIsLoss bool          `yaml:"stalemate-is-loss" env-default:"true"`
	IdleTimeout     time.Duration `yaml:"idle-timeout" env-default:"30m"`
	FinishedGrace   time.Duration `yaml:"finished-grace" env-default:"2m"`
	SweepInterval   time.Duration `yaml:"sweep-interval" env-default:"1m"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
