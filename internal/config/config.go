package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port    int
	DataDir string
}

func Load() *Config {
	cfg := &Config{
		Port:    getEnvInt("NETADMIN_PORT", 8080),
		DataDir: getEnvString("NETADMIN_DATA_DIR", "./data"),
	}

	os.MkdirAll(cfg.DataDir, 0755)

	return cfg
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
