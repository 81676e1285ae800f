package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/go-playground/validator/v10"
)

// SecretsGetter is the part of *secretsmanager.Client used here.
type SecretsGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// readSecret fetches the JSON secret stored under key into v.
func readSecret(ctx context.Context, sm SecretsGetter, key string, v any) error {
	out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("unable to fetch credentials from secrets manager: %w", err)
	}
	if out.SecretString == nil {
		return fmt.Errorf("secret %s has no string value", key)
	}
	if err := json.Unmarshal([]byte(*out.SecretString), v); err != nil {
		return fmt.Errorf("unable to parse credentials from secrets manager: %w", err)
	}
	return nil
}

// Credentials are the password login settings of a connection.
type Credentials struct {
	Username      string `json:"username" validate:"required"`
	PasswordToken string `json:"passwordToken" validate:"required"`
	Environment   string `json:"environment" validate:"omitempty,oneof=live test"`
	Version       string `json:"version"`
}

// LoadCredentials reads Credentials from the JSON secret stored under key.
func LoadCredentials(ctx context.Context, sm SecretsGetter, key string) (*Credentials, error) {
	c := &Credentials{}
	if err := readSecret(ctx, sm, key, c); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Options returns the connection options carried by the secret.
func (c Credentials) Options() []Option {
	var opts []Option
	if c.Environment != "" {
		opts = append(opts, WithEnvironment(Environment(c.Environment)))
	}
	if c.Version != "" {
		opts = append(opts, WithVersion(c.Version))
	}
	return opts
}

// NewConnectionFromSecret logs in with the credentials stored under key.
// Options passed here take precedence over the ones in the secret.
func NewConnectionFromSecret(ctx context.Context, sm SecretsGetter, key string, opts ...Option) (*Connection, error) {
	c, err := LoadCredentials(ctx, sm, key)
	if err != nil {
		return nil, err
	}
	return NewConnection(ctx, c.Username, c.PasswordToken, append(c.Options(), opts...)...)
}
