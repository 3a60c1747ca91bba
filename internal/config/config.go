package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Camera    Camera    `yaml:"camera"`
	Serial    Serial    `yaml:"serial"`
	Detection Detection `yaml:"detection"`
	Search    Search    `yaml:"search"`
	Loop      Loop      `yaml:"loop"`
	Redis     Redis     `yaml:"redis"`
	HTTP      HTTP      `yaml:"http"`
}

type Camera struct {
	Index      int  `yaml:"index" env:"CAMERA_INDEX" env-default:"0"`
	Width      int  `yaml:"width" env-default:"640"`
	Height     int  `yaml:"height" env-default:"480"`
	FPS        int  `yaml:"fps" env-default:"120"`
	Continuous bool `yaml:"continuous" env:"CAMERA_CONTINUOUS" env-default:"false"`
}

type Serial struct {
	Port        string        `yaml:"port" env:"SERIAL_PORT" env-default:"/dev/ttyUSB0"`
	Baud        int           `yaml:"baud" env:"SERIAL_BAUD" env-default:"115200"`
	PollTimeout time.Duration `yaml:"poll-timeout" env-default:"5ms"`
}

type Detection struct {
	GridStrategy string `yaml:"grid-strategy" env:"GRID_STRATEGY" env-default:"contour"`
	Reader       string `yaml:"reader" env:"BOARD_READER" env-default:"pixel"`
}

type Search struct {
	Method string `yaml:"method" env:"SEARCH_METHOD" env-default:"alpha-beta"`
}

type Loop struct {
	Interval  time.Duration `yaml:"interval" env-default:"0s"`
	MaxFaults int           `yaml:"max-faults" env-default:"10"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type HTTP struct {
	Enabled bool   `yaml:"enabled" env:"HTTP_ENABLED" env-default:"false"`
	Port    string `yaml:"port" env:"HTTP_PORT" env-default:"9090"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads the file at path when it is given, otherwise only the environment.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
