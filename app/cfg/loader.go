package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Data source configuration
	SheetBaseURL string `long:"sheet-base-url" env:"SHEET_BASE_URL" default:"https://docs.google.com/spreadsheets/d/" description:"Base URL of the spreadsheet CSV export"`
	SheetID      string `long:"sheet-id" env:"SHEET_ID" default:"12xZfClkzATbByAZDYtM5KV2THzVvg2cV3KvVAZ621PQ" description:"Spreadsheet document ID"`
	SheetGID     string `long:"sheet-gid" env:"SHEET_GID" description:"Worksheet GID of the listings sheet (optional)"`
	DatasetsDir  string `long:"datasets-dir" env:"DATASETS_DIR" default:"./datasets" description:"Directory containing dataset configuration files"`
	CacheTTL     int    `long:"cache-ttl" env:"CACHE_TTL" default:"600" description:"Default table cache TTL in seconds"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Table fetch timeout in seconds"`

	// Feedback configuration
	FeedbackWorksheet string `long:"feedback-worksheet" env:"FEEDBACK_WORKSHEET" default:"feedback" description:"Worksheet receiving feedback rows"`
	CredentialsFile   string `long:"credentials-file" env:"GOOGLE_CREDENTIALS_FILE" description:"Path to a service account key file"`
	CredentialsJSON   string `long:"credentials-json" env:"GOOGLE_CREDENTIALS_JSON" description:"Service account key material (takes precedence over the file)"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Restaurant Board/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Asia/Seoul" description:"Timezone for feedback timestamps (e.g., Asia/Seoul, UTC)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	// A missing .env is normal in hosted environments.
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func fromRaw(raw rawCfg) (*Cfg, error) {
	if raw.CacheTTL <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive, got %d", raw.CacheTTL)
	}
	if raw.FetchTimeout <= 0 {
		return nil, fmt.Errorf("fetch timeout must be positive, got %d", raw.FetchTimeout)
	}

	return &Cfg{
		SheetBaseURL:      raw.SheetBaseURL,
		SheetID:           raw.SheetID,
		SheetGID:          raw.SheetGID,
		DatasetsDir:       raw.DatasetsDir,
		CacheTTL:          time.Duration(raw.CacheTTL) * time.Second,
		FetchTimeout:      time.Duration(raw.FetchTimeout) * time.Second,
		FeedbackWorksheet: raw.FeedbackWorksheet,
		CredentialsFile:   raw.CredentialsFile,
		CredentialsJSON:   raw.CredentialsJSON,
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
