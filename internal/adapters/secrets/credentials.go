package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/ports"
	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
)

// LoadCredentials reads the gateway login and password stored at path.
// The secret value must be a JSON object {"login": "...", "password": "..."}.
func LoadCredentials(ctx context.Context, sm ports.SecretManagerAdapter, path string) (domain.Credentials, error) {
	secret, err := sm.GetSecret(ctx, path)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to load gateway credentials: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal([]byte(secret.Value), &creds); err != nil {
		return domain.Credentials{}, domain.WrapError(domain.ErrorCodeInvalidConfig, "gateway credentials secret is not valid JSON", err).
			WithDetail("path", path)
	}

	if err := creds.Validate(); err != nil {
		return domain.Credentials{}, err
	}

	return creds, nil
}
