package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	ErrMissingAllowedOrigins = errors.New("missing-allowed-origins")
	ErrInvalidValue          = errors.New("invalid-config-value")
)

type Config struct {
	Port              string
	AllowedOrigins    []string
	PostgresURL       string
	WordsFile         string
	Debug             bool
	WordChoices       int
	RoomCapacity      int
	MessagesPerSecond int
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		Port:              "5000",
		WordChoices:       3,
		RoomCapacity:      8,
		MessagesPerSecond: 60,
	}

	origins, exists := lookup("ALLOWED_ORIGINS")
	if !exists || strings.TrimSpace(origins) == "" {
		return Config{}, ErrMissingAllowedOrigins
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		cfg.Port = port
	}
	cfg.PostgresURL, _ = lookup("POSTGRES_URL")
	cfg.WordsFile, _ = lookup("WORDS_FILE")

	if v, ok := lookup("DEBUG"); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: DEBUG=%q", ErrInvalidValue, v)
		}
		cfg.Debug = debug
	}

	ints := []struct {
		name     string
		min, max int
		dst      *int
	}{
		{"WORD_CHOICES", 3, 4, &cfg.WordChoices},
		{"ROOM_CAPACITY", 2, 8, &cfg.RoomCapacity},
		{"MESSAGES_PER_SECOND", 1, 1000, &cfg.MessagesPerSecond},
	}
	for _, in := range ints {
		v, ok := lookup(in.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < in.min || n > in.max {
			return Config{}, fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidValue, in.name, in.min, in.max)
		}
		*in.dst = n
	}

	return cfg, nil
}
