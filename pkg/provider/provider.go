// Package provider drives cloud provider CLIs to provision the credential
// that gets encoded. Each provider shells out through a Runner so tests can
// substitute a fake; the codec never sees anything but the key file bytes.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Account describes what to provision: the project (or subscription) it
// lives in, the service account / service principal name, and the roles to
// grant it.
type Account struct {
	Project string
	Name    string
	Roles   []string
}

// Provider provisions a credential by invoking an external CLI. Implement-
// ations must be stateless apart from their Runner; all calls take a context
// and are expected to be one-shot.
type Provider interface {
	Name() string

	// EnableServices turns on the APIs the rest of the flow needs.
	EnableServices(ctx context.Context, acc Account) error

	// CreateAccount creates the service account / service principal.
	// Creating an account that already exists is an error surfaced from
	// the underlying CLI.
	CreateAccount(ctx context.Context, acc Account) error

	// GrantRoles assigns acc.Roles to the account.
	GrantRoles(ctx context.Context, acc Account) error

	// CreateKey mints a key for the account, writes it to path with 0600
	// permissions, and returns the raw key bytes.
	CreateKey(ctx context.Context, acc Account, path string) ([]byte, error)

	// KeyCreatesAccount reports whether CreateKey also creates the account
	// and grants its role, making CreateAccount and GrantRoles
	// validation-only. Callers use it to narrate the flow accurately.
	KeyCreatesAccount() bool
}

// Runner executes an external command and returns its stdout. The default
// runner wraps exec.CommandContext; tests inject their own.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command for real. Stderr from a failing command is
// folded into the returned error so callers can show the CLI's own message.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s", name, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

var factories = map[string]func(Runner) Provider{
	"gcp":   func(r Runner) Provider { return NewGCloud(r) },
	"azure": func(r Runner) Provider { return NewAzure(r) },
}

// Get returns the provider registered under name, backed by the real
// command runner.
func Get(name string) (Provider, error) {
	return GetWithRunner(name, ExecRunner)
}

// GetWithRunner is Get with an injected Runner.
func GetWithRunner(name string, run Runner) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q, must be one of: %s", name, strings.Join(Names(), ", "))
	}
	return factory(run), nil
}

// Names lists the registered provider names, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
