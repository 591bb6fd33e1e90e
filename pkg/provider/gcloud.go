package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// gcloudServices are the APIs the key-minting flow depends on.
var gcloudServices = []string{
	"iam.googleapis.com",
	"iamcredentials.googleapis.com",
}

// GCloud provisions a GCP service account and key via the gcloud CLI.
type GCloud struct {
	run Runner
}

func NewGCloud(run Runner) *GCloud {
	return &GCloud{run: run}
}

func (g *GCloud) Name() string { return "gcp" }

func (g *GCloud) KeyCreatesAccount() bool { return false }

// email is the fully qualified service account id gcloud expects.
func (g *GCloud) email(acc Account) string {
	return fmt.Sprintf("%s@%s.iam.gserviceaccount.com", acc.Name, acc.Project)
}

func (g *GCloud) EnableServices(ctx context.Context, acc Account) error {
	args := append([]string{"services", "enable"}, gcloudServices...)
	args = append(args, "--project", acc.Project)
	if _, err := g.run(ctx, "gcloud", args...); err != nil {
		return fmt.Errorf("enable services: %w", err)
	}
	return nil
}

func (g *GCloud) CreateAccount(ctx context.Context, acc Account) error {
	_, err := g.run(ctx, "gcloud", "iam", "service-accounts", "create", acc.Name,
		"--project", acc.Project,
		"--display-name", acc.Name)
	if err != nil {
		return fmt.Errorf("create service account: %w", err)
	}
	return nil
}

func (g *GCloud) GrantRoles(ctx context.Context, acc Account) error {
	for _, role := range acc.Roles {
		_, err := g.run(ctx, "gcloud", "projects", "add-iam-policy-binding", acc.Project,
			"--member", "serviceAccount:"+g.email(acc),
			"--role", role,
			"--condition", "None")
		if err != nil {
			return fmt.Errorf("grant role %s: %w", role, err)
		}
	}
	return nil
}

func (g *GCloud) CreateKey(ctx context.Context, acc Account, path string) ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}
	_, err := g.run(ctx, "gcloud", "iam", "service-accounts", "keys", "create", path,
		"--iam-account", g.email(acc))
	if err != nil {
		return nil, fmt.Errorf("create key: %w", err)
	}
	// gcloud writes the file itself; tighten permissions and read it back.
	if err := os.Chmod(path, 0600); err != nil {
		return nil, fmt.Errorf("chmod key file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return data, nil
}
