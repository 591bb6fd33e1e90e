package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Azure provisions a service principal via the az CLI. Unlike gcloud, az
// mints the credential at principal creation time: `az ad sp create-for-rbac`
// both creates the principal and prints its credential JSON, so CreateKey
// does the heavy lifting and CreateAccount/GrantRoles only validate inputs.
type Azure struct {
	run Runner
}

func NewAzure(run Runner) *Azure {
	return &Azure{run: run}
}

func (a *Azure) Name() string { return "azure" }

func (a *Azure) KeyCreatesAccount() bool { return true }

func (a *Azure) EnableServices(ctx context.Context, acc Account) error {
	// Selecting the subscription is the only preparation az needs.
	if _, err := a.run(ctx, "az", "account", "set", "--subscription", acc.Project); err != nil {
		return fmt.Errorf("set subscription: %w", err)
	}
	return nil
}

func (a *Azure) CreateAccount(ctx context.Context, acc Account) error {
	if acc.Name == "" {
		return fmt.Errorf("service principal name is required")
	}
	// Principal creation happens in CreateKey; see type comment.
	return nil
}

func (a *Azure) GrantRoles(ctx context.Context, acc Account) error {
	// Roles are passed to create-for-rbac in CreateKey; see type comment.
	return nil
}

func (a *Azure) CreateKey(ctx context.Context, acc Account, path string) ([]byte, error) {
	args := []string{"ad", "sp", "create-for-rbac",
		"--name", acc.Name,
		"--scopes", "/subscriptions/" + acc.Project,
		"--only-show-errors",
		"--output", "json"}
	// az accepts a single role per principal creation.
	if len(acc.Roles) > 1 {
		return nil, fmt.Errorf("azure supports one role at creation, got %s", strings.Join(acc.Roles, ", "))
	}
	if len(acc.Roles) == 1 {
		args = append(args, "--role", acc.Roles[0])
	}
	out, err := a.run(ctx, "az", args...)
	if err != nil {
		return nil, fmt.Errorf("create service principal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}
	return out, nil
}
