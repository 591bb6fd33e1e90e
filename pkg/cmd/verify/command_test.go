package verify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/credpaste/credpaste/pkg/app"
)

func TestVerifyFromStdin(t *testing.T) {
	a := app.New()
	out := &bytes.Buffer{}
	a.OutWriter = out
	a.ErrWriter = &bytes.Buffer{}
	a.InReader = strings.NewReader(`{"type":"service_account"}`)

	cmd := NewCommand(a)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "OK: 26 bytes -> 52 symbols")
	require.Contains(t, out.String(), "sha256")
}

func TestVerifyEmptyInput(t *testing.T) {
	a := app.New()
	out := &bytes.Buffer{}
	a.OutWriter = out
	a.ErrWriter = &bytes.Buffer{}
	a.InReader = strings.NewReader("")

	cmd := NewCommand(a)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "OK: 0 bytes -> 0 symbols")
}
