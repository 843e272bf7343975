package aws_handler_test

import (
	"errors"
	"testing"

	"mfportal/src/config"
	aws_handler "mfportal/src/utils/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	secretsmanageriface.SecretsManagerAPI
	values map[string]*string
}

func (f *fakeSecrets) GetSecretValue(input *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
	value, ok := f.values[aws.StringValue(input.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: value}, nil
}

func newSecretManager() *aws_handler.SecretManager {
	return aws_handler.NewSecretManager(&fakeSecrets{values: map[string]*string{
		"mfportal/jwt": aws.String("signing-key"),
		"mfportal/rds": aws.String(`{"username": "portal", "password": "s3cret", "port": 5432}`),
		"mfportal/bin": nil,
	}})
}

func TestGetSecretValue(t *testing.T) {
	sm := newSecretManager()

	tests := []struct {
		id      string
		want    string
		wantErr bool
	}{
		{id: "mfportal/jwt", want: "signing-key"},
		{id: "mfportal/rds#password", want: "s3cret"},
		{id: "mfportal/rds#port", want: "5432"},
		{id: "mfportal/rds#host", wantErr: true},
		{id: "mfportal/jwt#password", wantErr: true},
		{id: "mfportal/bin", wantErr: true},
		{id: "mfportal/missing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := sm.GetSecretValue(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSecrets(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "from-file"
	cfg.Databases.SQL.Password = "from-file"
	cfg.Secrets.JWTSecretID = "mfportal/jwt"
	cfg.Secrets.DBPasswordSecretID = "mfportal/rds#password"

	require.NoError(t, config.ResolveSecrets(cfg, newSecretManager()))
	assert.Equal(t, "signing-key", cfg.Auth.JWTSecret)
	assert.Equal(t, "s3cret", cfg.Databases.SQL.Password)

	cfg.Secrets.JWTSecretID = "mfportal/missing"
	assert.Error(t, config.ResolveSecrets(cfg, newSecretManager()))
}
