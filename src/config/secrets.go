package config

import "fmt"

// SecretFetcher is satisfied by aws_handler.SecretManager.
type SecretFetcher interface {
	GetSecretValue(secretID string) (string, error)
}

// ResolveSecrets overrides file based credentials with values held in the
// secret store. Ids left empty are not looked up.
func ResolveSecrets(cfg *Config, fetcher SecretFetcher) error {
	if cfg.Secrets.JWTSecretID != "" {
		secret, err := fetcher.GetSecretValue(cfg.Secrets.JWTSecretID)
		if err != nil {
			return fmt.Errorf("resolve jwt secret: %w", err)
		}
		cfg.Auth.JWTSecret = secret
	}
	if cfg.Secrets.DBPasswordSecretID != "" {
		password, err := fetcher.GetSecretValue(cfg.Secrets.DBPasswordSecretID)
		if err != nil {
			return fmt.Errorf("resolve database password: %w", err)
		}
		cfg.Databases.SQL.Password = password
	}
	return nil
}
