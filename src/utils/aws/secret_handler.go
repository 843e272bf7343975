package aws_handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

type SecretManager struct {
	svc secretsmanageriface.SecretsManagerAPI
}

func NewSecretManager(svc secretsmanageriface.SecretsManagerAPI) *SecretManager {
	return &SecretManager{svc: svc}
}

// GetSecretValue returns the string value of secretID. An id of the form
// "name#key" reads key out of a secret stored as a JSON object, which is how
// RDS credentials are kept.
func (s *SecretManager) GetSecretValue(secretID string) (string, error) {
	name, key, hasKey := strings.Cut(secretID, "#")

	result, err := s.svc.GetSecretValue(&secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", err
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}
	if !hasKey {
		return *result.SecretString, nil
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(*result.SecretString), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object: %w", name, err)
	}
	value, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("secret %s has no key %q", name, key)
	}
	return fmt.Sprint(value), nil
}
