package cfg

import "time"

type Cfg struct {
	// Data source configuration
	SheetBaseURL string
	SheetID      string
	SheetGID     string
	DatasetsDir  string
	CacheTTL     time.Duration
	FetchTimeout time.Duration

	// Feedback configuration
	FeedbackWorksheet string
	CredentialsFile   string
	CredentialsJSON   string

	// Application configuration
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

func (c *Cfg) FeedbackEnabled() bool {
	return c.CredentialsFile != "" || c.CredentialsJSON != ""
}
