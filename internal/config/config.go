package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the process reads from the environment. The
// three public-data portals share one service key by default but each
// section can override it.
type AppConfig struct {
	ServiceKey string

	WeatherBaseURL    string
	AirQualityBaseURL string
	AstroBaseURL      string

	UltraShortPath string
	ShortPath      string
	MidTempPath    string
	MidLandPath    string
	StationPath    string
	DustPath       string
	WeeklyPath     string
	RiseSetPath    string

	// ValkeyAddr enables the valkey-backed cache; empty falls back to the
	// in-memory cache.
	ValkeyAddr string

	// Timezone governs the refresh schedule's wall clock. The upstream
	// publish times are Korea Standard Time.
	Timezone string

	HTTPTimeout time.Duration
	Port        string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.ServiceKey = os.Getenv("DATA_PORTAL_SERVICE_KEY")
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("DATA_PORTAL_SERVICE_KEY is required")
	}
	// The data portal hands out keys percent-encoded. Clients re-encode
	// query parameters, so store the decoded form.
	if decoded, err := url.QueryUnescape(cfg.ServiceKey); err == nil {
		cfg.ServiceKey = decoded
	}

	cfg.WeatherBaseURL = getenvDefault("WEATHER_BASE_URL", "http://apis.data.go.kr")
	cfg.AirQualityBaseURL = getenvDefault("AIR_QUALITY_BASE_URL", "http://apis.data.go.kr")
	cfg.AstroBaseURL = getenvDefault("ASTRO_BASE_URL", "http://apis.data.go.kr")

	cfg.UltraShortPath = getenvDefault("WEATHER_ULTRA_SHORT_PATH", "/1360000/VilageFcstInfoService_2.0/getUltraSrtFcst")
	cfg.ShortPath = getenvDefault("WEATHER_SHORT_PATH", "/1360000/VilageFcstInfoService_2.0/getVilageFcst")
	cfg.MidTempPath = getenvDefault("WEATHER_MID_TEMP_PATH", "/1360000/MidFcstInfoService/getMidTa")
	cfg.MidLandPath = getenvDefault("WEATHER_MID_LAND_PATH", "/1360000/MidFcstInfoService/getMidLandFcst")
	cfg.StationPath = getenvDefault("AIR_STATION_PATH", "/B552584/ArpltnInforInqireSvc/getMsrstnAcctoRltmMesureDnsty")
	cfg.DustPath = getenvDefault("AIR_DUST_PATH", "/B552584/ArpltnInforInqireSvc/getMinuDustFrcstDspth")
	cfg.WeeklyPath = getenvDefault("AIR_WEEKLY_PATH", "/B552584/ArpltnInforInqireSvc/getMinuDustWeekFrcstDspth")
	cfg.RiseSetPath = getenvDefault("ASTRO_RISE_SET_PATH", "/B090041/openapi/service/RiseSetInfoService/getLCRiseSetInfo")

	cfg.ValkeyAddr = os.Getenv("VALKEY_ADDR")
	cfg.Timezone = getenvDefault("TIMEZONE", "Asia/Seoul")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
