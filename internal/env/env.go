package env

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// actual environment variables
var JWT_SECRET []byte
var MONGO_URI string
var PREFORK bool
var DRAIN_MODE bool

// identity exchange endpoint
var IDENTITY_URL string
var IDENTITY_CLIENT_ID string
var IDENTITY_CLIENT_SECRET string

// upstream live event stream
var STREAM_URL string

// profile lookup side channel
var PROFILE_URL string
var PROFILE_AUTH_KEY string
var PROFILE_CAMPAIGN string

// connection supervision tuning (optional overrides)
var STREAM_RETRY_DELAY time.Duration
var STREAM_MAX_RETRIES int
var STREAM_SUBSCRIBE_GRACE time.Duration

// this is required
var VERSION string

type Config struct {
	Root       string
	AppVersion string
}

func Init(envRoot string, appVersion string) {
	loadEnv(envRoot)
	loadVersion(appVersion)

	PREFORK, _ = strconv.ParseBool(os.Getenv("PREFORK"))
	DRAIN_MODE, _ = strconv.ParseBool(os.Getenv("DRAIN_MODE"))
	MONGO_URI = os.Getenv("MONGO_URI")
	JWT_SECRET = []byte(os.Getenv("JWT_SECRET"))

	IDENTITY_URL = strings.TrimSpace(os.Getenv("IDENTITY_URL"))
	IDENTITY_CLIENT_ID = strings.TrimSpace(os.Getenv("IDENTITY_CLIENT_ID"))
	IDENTITY_CLIENT_SECRET = strings.TrimSpace(os.Getenv("IDENTITY_CLIENT_SECRET"))

	STREAM_URL = strings.TrimSpace(os.Getenv("STREAM_URL"))

	PROFILE_URL = strings.TrimSpace(os.Getenv("PROFILE_URL"))
	PROFILE_AUTH_KEY = strings.TrimSpace(os.Getenv("PROFILE_AUTH_KEY"))
	PROFILE_CAMPAIGN = strings.TrimSpace(os.Getenv("PROFILE_CAMPAIGN"))

	STREAM_RETRY_DELAY = durationOr("STREAM_RETRY_DELAY", 3*time.Second)
	STREAM_MAX_RETRIES = intOr("STREAM_MAX_RETRIES", 5)
	STREAM_SUBSCRIBE_GRACE = durationOr("STREAM_SUBSCRIBE_GRACE", time.Second)
}

func loadEnv(envRoot string) {
	if envRoot == "" {
		envRoot = repoRoot()
	}

	path := path.Join(envRoot, ".env")
	if err := godotenv.Overload(path); err != nil {
		log.Fatalf("failed to load env file %s: %v", path, err)
	}
}

func loadVersion(appVersion string) {
	if appVersion == "" {
		data, err := os.ReadFile(filepath.Join(repoRoot(), "VERSION"))
		if err != nil {
			log.Fatalf("failed to read version file from repo root: %v", err)
		}

		trimmed := strings.TrimSpace(string(data))
		if trimmed != "" {
			VERSION = trimmed
		} else {
			VERSION = "unknown"
		}
	} else {
		VERSION = appVersion
	}
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func intOr(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return n
}

func repoRoot() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}
