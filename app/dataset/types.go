package dataset

import (
	"net/url"
	"time"
)

const (
	DefaultName = "restaurants"
	DefaultTTL  = 600 // seconds
)

type Config struct {
	Name        string   // Derived from filename (without .yml extension)
	Title       string   `yaml:"title"`
	SheetID     string   `yaml:"sheet_id"`
	GID         string   `yaml:"gid"`
	TTL         int      `yaml:"ttl"` // seconds
	LinkColumn  string   `yaml:"link_column"`
	LinkTargets []string `yaml:"link_targets"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// ExportURL builds the CSV export endpoint for the dataset's sheet.
func (c *Config) ExportURL(baseURL string) string {
	exportURL := baseURL + url.PathEscape(c.SheetID) + "/export?format=csv"
	if c.GID != "" {
		exportURL += "&gid=" + url.QueryEscape(c.GID)
	}
	return exportURL
}
