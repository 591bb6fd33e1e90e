package decode

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/credpaste/credpaste/pkg/app"
	"github.com/credpaste/credpaste/pkg/base62"
)

func newTestApp() (*app.App, *bytes.Buffer) {
	a := app.New()
	out := &bytes.Buffer{}
	a.OutWriter = out
	a.ErrWriter = &bytes.Buffer{}
	return a, out
}

func TestDecodeFromStdin(t *testing.T) {
	a, out := newTestApp()
	payload := []byte(`{"type":"service_account"}`)
	// Trailing newline from a paste must be tolerated.
	a.InReader = strings.NewReader(base62.New().Encode(payload) + "\n")

	cmd := NewCommand(a)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	require.Equal(t, payload, out.Bytes())
}

func TestDecodeToFile(t *testing.T) {
	a, _ := newTestApp()
	payload := []byte{0x00, 0x01, 0xFF}
	a.InReader = strings.NewReader(base62.New().Encode(payload))
	dest := filepath.Join(t.TempDir(), "key.json")

	cmd := NewCommand(a)
	cmd.SetArgs([]string{"--out", dest})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, payload, data)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestDecodeOddLength(t *testing.T) {
	a, _ := newTestApp()
	a.InReader = strings.NewReader("abc")

	cmd := NewCommand(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "odd")
}

func TestDecodeInvalidCharacter(t *testing.T) {
	a, _ := newTestApp()
	a.InReader = strings.NewReader("!!")

	cmd := NewCommand(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), `invalid character '!'`)
}

func TestDecodePrettyNonJSONPassesThrough(t *testing.T) {
	a, out := newTestApp()
	payload := []byte("not json")
	a.InReader = strings.NewReader(base62.New().Encode(payload))

	cmd := NewCommand(a)
	cmd.SetArgs([]string{"--pretty"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, payload, out.Bytes())
}
