package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeRunner records every invocation and plays back canned responses.
type fakeRunner struct {
	calls  []call
	out    []byte
	err    error
	onCall func(name string, args []string)
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.onCall != nil {
		f.onCall(name, args)
	}
	return f.out, f.err
}

func TestGetUnknownProvider(t *testing.T) {
	_, err := Get("aws")
	require.Error(t, err)
	require.Contains(t, err.Error(), "azure, gcp")
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{"azure", "gcp"}, Names())
}

func TestKeyCreatesAccount(t *testing.T) {
	f := &fakeRunner{}
	require.False(t, NewGCloud(f.run).KeyCreatesAccount())
	require.True(t, NewAzure(f.run).KeyCreatesAccount())
}

func TestGCloudEnableServices(t *testing.T) {
	f := &fakeRunner{}
	g := NewGCloud(f.run)

	err := g.EnableServices(context.Background(), Account{Project: "demo-1234"})
	require.NoError(t, err)
	require.Len(t, f.calls, 1)
	require.Equal(t, "gcloud", f.calls[0].name)
	require.Equal(t, []string{
		"services", "enable",
		"iam.googleapis.com", "iamcredentials.googleapis.com",
		"--project", "demo-1234",
	}, f.calls[0].args)
}

func TestGCloudCreateAccount(t *testing.T) {
	f := &fakeRunner{}
	g := NewGCloud(f.run)

	acc := Account{Project: "demo-1234", Name: "form-uploader"}
	require.NoError(t, g.CreateAccount(context.Background(), acc))
	require.Equal(t, []string{
		"iam", "service-accounts", "create", "form-uploader",
		"--project", "demo-1234",
		"--display-name", "form-uploader",
	}, f.calls[0].args)
}

func TestGCloudGrantRoles(t *testing.T) {
	f := &fakeRunner{}
	g := NewGCloud(f.run)

	acc := Account{
		Project: "demo-1234",
		Name:    "form-uploader",
		Roles:   []string{"roles/storage.objectViewer", "roles/logging.viewer"},
	}
	require.NoError(t, g.GrantRoles(context.Background(), acc))
	require.Len(t, f.calls, 2)
	require.Contains(t, f.calls[0].args, "serviceAccount:form-uploader@demo-1234.iam.gserviceaccount.com")
	require.Contains(t, f.calls[0].args, "roles/storage.objectViewer")
	require.Contains(t, f.calls[1].args, "roles/logging.viewer")
}

func TestGCloudGrantRolesStopsOnError(t *testing.T) {
	f := &fakeRunner{err: errors.New("denied")}
	g := NewGCloud(f.run)

	acc := Account{Project: "p", Name: "n", Roles: []string{"r1", "r2"}}
	err := g.GrantRoles(context.Background(), acc)
	require.Error(t, err)
	require.Len(t, f.calls, 1)
}

func TestGCloudCreateKey(t *testing.T) {
	keyJSON := []byte(`{"type":"service_account","project_id":"demo-1234"}`)
	path := filepath.Join(t.TempDir(), "keys", "demo.json")

	// gcloud writes the key file itself; the fake mimics that.
	f := &fakeRunner{onCall: func(name string, args []string) {
		require.NoError(t, os.WriteFile(path, keyJSON, 0644))
	}}
	g := NewGCloud(f.run)

	data, err := g.CreateKey(context.Background(), Account{Project: "demo-1234", Name: "form-uploader"}, path)
	require.NoError(t, err)
	require.Equal(t, keyJSON, data)

	require.Contains(t, f.calls[0].args, "--iam-account")
	require.Contains(t, f.calls[0].args, "form-uploader@demo-1234.iam.gserviceaccount.com")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestAzureCreateKey(t *testing.T) {
	keyJSON := []byte(`{"appId":"x","password":"y","tenant":"z"}`)
	f := &fakeRunner{out: keyJSON}
	a := NewAzure(f.run)

	path := filepath.Join(t.TempDir(), "keys", "sp.json")
	acc := Account{
		Project: "00000000-0000-0000-0000-000000000000",
		Name:    "staging-sp",
		Roles:   []string{"Reader"},
	}
	data, err := a.CreateKey(context.Background(), acc, path)
	require.NoError(t, err)
	require.Equal(t, keyJSON, data)

	args := strings.Join(f.calls[0].args, " ")
	require.Contains(t, args, "ad sp create-for-rbac")
	require.Contains(t, args, "--name staging-sp")
	require.Contains(t, args, "--scopes /subscriptions/00000000-0000-0000-0000-000000000000")
	require.Contains(t, args, "--role Reader")

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, keyJSON, onDisk)
}

func TestAzureCreateKeyRejectsMultipleRoles(t *testing.T) {
	a := NewAzure((&fakeRunner{}).run)
	_, err := a.CreateKey(context.Background(), Account{
		Project: "sub", Name: "sp", Roles: []string{"Reader", "Contributor"},
	}, filepath.Join(t.TempDir(), "k.json"))
	require.Error(t, err)
}

func TestAzureEnableServices(t *testing.T) {
	f := &fakeRunner{}
	a := NewAzure(f.run)

	require.NoError(t, a.EnableServices(context.Background(), Account{Project: "sub-id"}))
	require.Equal(t, []string{"account", "set", "--subscription", "sub-id"}, f.calls[0].args)
}
