// Package secret resolves credentials referenced from configuration.
package secret

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Resolver returns the value of a named secret.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// SSMAPI is the part of the SSM client used by SSMResolver.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMResolver reads SecureString parameters from SSM Parameter Store.
type SSMResolver struct {
	client SSMAPI
}

// NewSSMResolver creates a resolver backed by client
func NewSSMResolver(client SSMAPI) *SSMResolver {
	return &SSMResolver{client: client}
}

func (r *SSMResolver) Resolve(ctx context.Context, name string) (string, error) {
	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("ssm parameter %q: %w", name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("ssm parameter %q is empty", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// EnvResolver reads secrets from environment variables. A parameter path such
// as "/xbookmarks/client-secret" maps to XB_CLIENT_SECRET.
type EnvResolver struct {
	lookup func(string) (string, bool)
}

// NewEnvResolver creates a resolver over the process environment
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{lookup: os.LookupEnv}
}

func (r *EnvResolver) Resolve(_ context.Context, name string) (string, error) {
	envName := EnvName(name)
	val, ok := r.lookup(envName)
	if !ok || val == "" {
		return "", fmt.Errorf("environment variable %s is not set", envName)
	}
	return val, nil
}

// EnvName converts a parameter path to its environment variable name.
func EnvName(name string) string {
	last := name[strings.LastIndex(name, "/")+1:]
	return "XB_" + strings.ToUpper(strings.ReplaceAll(last, "-", "_"))
}

// Value returns inline when set, otherwise resolves ref. Both empty is an error.
func Value(ctx context.Context, r Resolver, inline, ref string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if ref == "" {
		return "", fmt.Errorf("secret is neither set nor referenced")
	}
	if r == nil {
		return "", fmt.Errorf("no resolver configured for %q", ref)
	}
	return r.Resolve(ctx, ref)
}
