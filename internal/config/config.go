package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultUsersTable     = "users"
	defaultVideosTable    = "videos"
	defaultRawVideoBucket = "buitube-raw-videos"
)

// Config is the process-wide configuration shared by every function. The
// listing page size (videos.PageSize) and upload URL lifetime (uploads.URLTTL)
// are constants, not settings.
type Config struct {
	UsersTable         string `validate:"required"`
	VideosTable        string `validate:"required"`
	RawVideoBucket     string `validate:"required"`
	UserEventsTopicArn string `validate:"omitempty,startswith=arn:"`
	LogLevel           string `validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat          string `validate:"omitempty,oneof=json text"`
}

// Load reads the environment (after any local .env files) and validates it.
func Load() (Config, error) {
	if err := loadEnvFiles(); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		UsersTable:         get("USERS_TABLE", defaultUsersTable),
		VideosTable:        get("VIDEOS_TABLE", defaultVideosTable),
		RawVideoBucket:     get("RAW_VIDEO_BUCKET", defaultRawVideoBucket),
		UserEventsTopicArn: get("USER_EVENTS_TOPIC_ARN", ""),
		LogLevel:           strings.ToLower(get("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(get("LOG_FORMAT", "json")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Lambda never ships .env files, so missing files are fine.
func loadEnvFiles() error {
	var files []string
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			files = append(files, name)
		}
	}
	if len(files) == 0 {
		return nil
	}
	return godotenv.Load(files...)
}
