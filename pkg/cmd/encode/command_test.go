package encode

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

func newTestApp() (*app.App, *bytes.Buffer, *bytes.Buffer) {
	a := app.New()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	a.OutWriter = out
	a.ErrWriter = errOut
	return a, out, errOut
}

func TestEncodeFromStdin(t *testing.T) {
	a, out, _ := newTestApp()
	payload := `{"type":"service_account"}`
	a.InReader = strings.NewReader(payload)

	cmd := NewCommand(a)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	want := base62.New().Encode([]byte(payload)) + "\n"
	require.Equal(t, want, out.String())
}

func TestEncodeFromFile(t *testing.T) {
	a, out, _ := newTestApp()
	payload := []byte{0x00, 0x01, 0xFF}
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, payload, 0600))

	cmd := NewCommand(a)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	require.Equal(t, base62.New().Encode(payload)+"\n", out.String())
}

func TestEncodeToFile(t *testing.T) {
	a, out, _ := newTestApp()
	a.InReader = strings.NewReader("hello")
	dest := filepath.Join(t.TempDir(), "encoded.txt")

	cmd := NewCommand(a)
	cmd.SetArgs([]string{"--out", dest})
	require.NoError(t, cmd.Execute())
	require.Empty(t, out.String())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, base62.New().Encode([]byte("hello"))+"\n", string(data))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEncodeTemplate(t *testing.T) {
	a, out, _ := newTestApp()
	a.InReader = strings.NewReader("hi")

	cmd := NewCommand(a)
	cmd.SetArgs([]string{"--template", `{{ .Length }}:{{ .Encoded }}`})
	require.NoError(t, cmd.Execute())

	require.Equal(t, "2:"+base62.New().Encode([]byte("hi"))+"\n", out.String())
}

func TestEncodeTemplateSprigFunctions(t *testing.T) {
	a, out, _ := newTestApp()
	a.InReader = strings.NewReader("hi")

	cmd := NewCommand(a)
	cmd.SetArgs([]string{"--template", `{{ .Encoded | upper }}`})
	require.NoError(t, cmd.Execute())

	encoded := base62.New().Encode([]byte("hi"))
	require.Equal(t, strings.ToUpper(encoded)+"\n", out.String())
}

func TestEncodeBadTemplate(t *testing.T) {
	a, _, _ := newTestApp()
	a.InReader = strings.NewReader("hi")

	cmd := NewCommand(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--template", `{{ .Encoded`})
	require.Error(t, cmd.Execute())
}

func TestEncodeEmptyInput(t *testing.T) {
	a, out, _ := newTestApp()
	a.InReader = strings.NewReader("")

	cmd := NewCommand(a)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "\n", out.String())
}
