package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// App holds the process settings read from the environment.
type App struct {
	Env     string
	Port    string
	MongoDB string

	GCSBucket string

	VertexProject     string
	VertexLocation    string
	VertexModel       string
	VertexCredentials string

	SaveMaxAttempts int
	SaveBackoffBase time.Duration
	StatsCacheTTL   time.Duration

	UploadRatePerMinute int
	MaxUploadBytes      int64
}

func (a App) Production() bool { return a.Env == "production" }

func LoadApp() (App, error) {
	a := App{
		Env:     strings.ToLower(envOr("APP_ENV", "development")),
		Port:    envOr("PORT", "8080"),
		MongoDB: envOr("MONGO_DB", "roastcv"),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		VertexProject:     os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:    envOr("VERTEX_LOCATION", "us-central1"),
		VertexModel:       os.Getenv("VERTEX_MODEL"),
		VertexCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}

	var err error
	if a.SaveMaxAttempts, err = envInt("STORAGE_MAX_ATTEMPTS", 3); err != nil {
		return App{}, err
	}
	backoffMS, err := envInt("STORAGE_BACKOFF_MS", 1000)
	if err != nil {
		return App{}, err
	}
	a.SaveBackoffBase = time.Duration(backoffMS) * time.Millisecond

	if a.StatsCacheTTL, err = envDuration("STATS_CACHE_TTL", time.Minute); err != nil {
		return App{}, err
	}
	if a.UploadRatePerMinute, err = envInt("UPLOAD_RATE_PER_MIN", 10); err != nil {
		return App{}, err
	}
	maxMB, err := envInt("MAX_UPLOAD_MB", 10)
	if err != nil {
		return App{}, err
	}
	a.MaxUploadBytes = int64(maxMB) << 20

	if a.SaveMaxAttempts < 1 {
		return App{}, errors.New("STORAGE_MAX_ATTEMPTS must be at least 1")
	}
	return a, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New(key + " must be seconds or a duration like 90s")
	}
	return d, nil
}
