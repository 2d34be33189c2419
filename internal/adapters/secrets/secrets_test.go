package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/ports"
	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeSecret(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLocalSecretManager_GetSecret(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "awesomesauce/gateway.json", `{"login":"test-api","password":"pw"}`)
	writeSecret(t, dir, "wrapped.json", `{"value":"inner","tags":{"env":"dev"},"created_at":"2024-01-01"}`)
	writeSecret(t, dir, "plain.txt", "plain-value")

	sm := NewLocalSecretManager(dir, zap.NewNop())
	ctx := context.Background()

	secret, err := sm.GetSecret(ctx, "awesomesauce/gateway.json")
	require.NoError(t, err)
	assert.Equal(t, `{"login":"test-api","password":"pw"}`, secret.Value)

	secret, err = sm.GetSecret(ctx, "wrapped.json")
	require.NoError(t, err)
	assert.Equal(t, "inner", secret.Value)
	assert.Equal(t, "dev", secret.Metadata["env"])
	assert.Equal(t, "2024-01-01", secret.CreatedAt)

	secret, err = sm.GetSecret(ctx, "plain.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain-value", secret.Value)

	_, err = sm.GetSecret(ctx, "missing.json")
	assert.ErrorContains(t, err, "secret not found")
}

func TestLocalSecretManager_StaysInBasePath(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "secrets")
	writeSecret(t, parent, "outside.txt", "nope")
	require.NoError(t, os.MkdirAll(base, 0o700))

	sm := NewLocalSecretManager(base, zap.NewNop())

	_, err := sm.GetSecret(context.Background(), "../outside.txt")
	assert.Error(t, err)
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "good.json", `{"login":"test-api","password":"pw"}`)
	writeSecret(t, dir, "missing-password.json", `{"login":"test-api"}`)
	writeSecret(t, dir, "garbage.txt", "not json")

	sm := NewLocalSecretManager(dir, zap.NewNop())
	ctx := context.Background()

	creds, err := LoadCredentials(ctx, sm, "good.json")
	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{Login: "test-api", Password: "pw"}, creds)

	_, err = LoadCredentials(ctx, sm, "missing-password.json")
	assert.True(t, errors.Is(err, domain.ErrMissingCredentials))

	_, err = LoadCredentials(ctx, sm, "garbage.txt")
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeInvalidConfig))

	_, err = LoadCredentials(ctx, sm, "nope.json")
	assert.ErrorContains(t, err, "failed to load gateway credentials")
}

type fakeSecretsManager struct {
	calls  int
	output *secretsmanager.GetSecretValueOutput
	err    error
}

func (f *fakeSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	return f.output, f.err
}

func TestAWSSecretsManagerAdapter_GetSecret(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	fake := &fakeSecretsManager{
		output: &secretsmanager.GetSecretValueOutput{
			ARN:          aws.String("arn:aws:secretsmanager:us-east-1:123:secret:awesomesauce"),
			Name:         aws.String("awesomesauce/gateway"),
			SecretString: aws.String(`{"login":"test-api","password":"pw"}`),
			VersionId:    aws.String("v-1"),
			CreatedDate:  &created,
		},
	}
	adapter := newAWSSecretsManagerAdapter(fake, DefaultAWSSecretsManagerConfig("us-east-1"), zap.NewNop())

	secret, err := adapter.GetSecret(context.Background(), "awesomesauce/gateway")
	require.NoError(t, err)
	assert.Equal(t, `{"login":"test-api","password":"pw"}`, secret.Value)
	assert.Equal(t, "v-1", secret.Version)
	assert.Equal(t, "2024-01-02T03:04:05Z", secret.CreatedAt)
	assert.Equal(t, "awesomesauce/gateway", secret.Metadata["name"])

	// second read is served from the cache
	_, err = adapter.GetSecret(context.Background(), "awesomesauce/gateway")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestAWSSecretsManagerAdapter_Error(t *testing.T) {
	fake := &fakeSecretsManager{err: errors.New("access denied")}
	cfg := DefaultAWSSecretsManagerConfig("us-east-1")
	cfg.EnableCache = false
	adapter := newAWSSecretsManagerAdapter(fake, cfg, zap.NewNop())

	_, err := adapter.GetSecret(context.Background(), "awesomesauce/gateway")
	assert.ErrorContains(t, err, "access denied")
}

func newVaultServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "test-token" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/secret/data/awesomesauce/gateway":
			_, _ = w.Write([]byte(`{"data":{"data":{"login":"test-api","password":"pw"},"metadata":{"version":3,"created_time":"2024-01-01T00:00:00Z"}}}`))
		case "/v1/secret/data/wrapped":
			_, _ = w.Write([]byte(`{"data":{"data":{"value":"inner"},"metadata":{"version":1}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
		}
	}))
}

func TestVaultAdapter_GetSecret(t *testing.T) {
	server := newVaultServer(t)
	defer server.Close()

	cfg := DefaultVaultConfig(server.URL)
	cfg.Token = "test-token"
	sm, err := NewVaultAdapter(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	creds, err := LoadCredentials(context.Background(), sm, "awesomesauce/gateway")
	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{Login: "test-api", Password: "pw"}, creds)

	secret, err := sm.GetSecret(context.Background(), "awesomesauce/gateway")
	require.NoError(t, err)
	assert.Equal(t, "3", secret.Version)
	assert.Equal(t, "2024-01-01T00:00:00Z", secret.CreatedAt)

	secret, err = sm.GetSecret(context.Background(), "wrapped")
	require.NoError(t, err)
	assert.Equal(t, "inner", secret.Value)

	_, err = sm.GetSecret(context.Background(), "missing")
	assert.Error(t, err)
}

func TestDecodeKV(t *testing.T) {
	tests := []struct {
		name        string
		data        map[string]interface{}
		v2          bool
		wantValue   string
		wantVersion string
		wantErr     bool
	}{
		{
			name:        "v1 value key",
			data:        map[string]interface{}{"value": "raw"},
			wantValue:   "raw",
			wantVersion: "1",
		},
		{
			name:        "v1 fields encoded as json",
			data:        map[string]interface{}{"login": "a", "password": "b", "ttl": json.Number("30")},
			wantValue:   `{"login":"a","password":"b"}`,
			wantVersion: "1",
		},
		{
			name: "v2 unwraps data",
			data: map[string]interface{}{
				"data":     map[string]interface{}{"value": "inner"},
				"metadata": map[string]interface{}{"version": json.Number("7")},
			},
			v2:          true,
			wantValue:   "inner",
			wantVersion: "7",
		},
		{
			name:    "v2 without data",
			data:    map[string]interface{}{"value": "x"},
			v2:      true,
			wantErr: true,
		},
		{
			name:    "empty value",
			data:    map[string]interface{}{"value": ""},
			wantErr: true,
		},
		{
			name:    "no string fields",
			data:    map[string]interface{}{"n": json.Number("1")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := decodeKV(tt.data, tt.v2)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, secret.Value)
			assert.Equal(t, tt.wantVersion, secret.Version)
		})
	}
}

func TestVaultAdapter_RequiresToken(t *testing.T) {
	cfg := DefaultVaultConfig("http://127.0.0.1:8200")

	_, err := NewVaultAdapter(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "token is required")

	cfg.AuthMethod = "kubernetes"
	_, err = NewVaultAdapter(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported auth method")
}

func TestSecretCache_Expires(t *testing.T) {
	cache := newSecretCache(true, 10*time.Millisecond)
	cache.set("k", &ports.Secret{Value: "v"})

	require.NotNil(t, cache.get("k"))
	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, cache.get("k"))

	disabled := newSecretCache(false, time.Minute)
	disabled.set("k", &ports.Secret{Value: "v"})
	assert.Nil(t, disabled.get("k"))
}
