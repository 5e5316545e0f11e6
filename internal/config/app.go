package config

import "os"

const defaultPort = "8000"

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	if port, ok := os.LookupEnv("APP_PORT"); ok && port != "" {
		return port
	}
	return defaultPort
}
