package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // Raw secret payload, JSON for gateway credentials
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManagerAdapter defines the port for reading secrets from a secret management service.
// Supports multiple backends: local files, AWS Secrets Manager, HashiCorp Vault.
// Path format depends on implementation:
//   - Local: file path relative to the base directory
//   - AWS: secret name or ARN, e.g. "awesomesauce/gateway"
//   - Vault: path below the KV mount, e.g. "awesomesauce/gateway"
type SecretManagerAdapter interface {
	// GetSecret retrieves a secret by its path/name
	// Returns error if the secret does not exist or the backend is unreachable
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
