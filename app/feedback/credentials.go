package feedback

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// CredentialProvider supplies service account key material. The submitter
// never manages where the secret lives.
type CredentialProvider interface {
	Credentials(ctx context.Context) ([]byte, error)
}

// FileCredentials reads a local key file, e.g. service-account-key.json.
type FileCredentials struct {
	Path string
}

func (f FileCredentials) Credentials(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

// StaticCredentials holds key material injected by the hosting secret store,
// usually through an environment variable.
type StaticCredentials []byte

func (s StaticCredentials) Credentials(ctx context.Context) ([]byte, error) {
	if len(strings.TrimSpace(string(s))) == 0 {
		return nil, fmt.Errorf("credentials are empty")
	}
	return []byte(s), nil
}

// NewCredentialProvider prefers inline key material over a key file and
// returns nil when neither is configured.
func NewCredentialProvider(credentialsJSON, credentialsFile string) CredentialProvider {
	if credentialsJSON != "" {
		return StaticCredentials(credentialsJSON)
	}
	if credentialsFile != "" {
		return FileCredentials{Path: credentialsFile}
	}
	return nil
}
