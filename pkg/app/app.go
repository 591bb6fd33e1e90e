package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/credpaste/credpaste/pkg/base62"
	"github.com/credpaste/credpaste/pkg/config"
)

// App holds all shared mutable state for the CLI. It is created once per
// invocation and threaded into every command package.
type App struct {
	// I/O
	OutWriter    io.Writer
	ErrWriter    io.Writer
	InReader     io.Reader
	ColorableOut io.Writer

	// Config state
	Cfg             config.Config
	CurrentProfile  *config.Profile
	CfgFile         string
	ProfileOverride string

	// Codec and display
	Codec   *base62.Codec
	Jsonfmt *prettyjson.Formatter

	// Display
	NoHeaderFlag bool

	// Root command reference (for completion generation)
	Root *cobra.Command
}

// New creates an App with sane defaults.
func New() *App {
	return &App{
		OutWriter:    os.Stdout,
		ErrWriter:    os.Stderr,
		InReader:     os.Stdin,
		ColorableOut: colorable.NewColorableStdout(),
		Codec:        base62.New(),
		Jsonfmt:      prettyjson.NewFormatter(),
	}
}

// InitConfig reads the config file and resolves the active profile.
// Called by PersistentPreRunE on the root command.
func (a *App) InitConfig() error {
	var err error
	a.Cfg, err = config.ReadConfig(a.CfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.Cfg.ProfileOverride = a.ProfileOverride
	a.CurrentProfile = a.Cfg.ActiveProfile()
	return nil
}

// RequireProfile returns the active profile or an actionable error.
func (a *App) RequireProfile() (*config.Profile, error) {
	if a.CurrentProfile == nil {
		return nil, fmt.Errorf("no active profile; add one with 'credpaste profile add-profile' or pass --profile")
	}
	return a.CurrentProfile, nil
}

// ReadInput returns the payload bytes named by path. "" and "-" both mean
// standard input, the channel of choice for keeping credentials out of
// process argument lists.
func (a *App) ReadInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(a.InReader)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteOutput writes data to path, or to OutWriter when path is "" or "-".
// Files are created 0600 since the payload is usually a credential.
func (a *App) WriteOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := a.OutWriter.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ValidProfileArgs completes profile names for commands that take one.
func (a *App) ValidProfileArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := a.InitConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, profile := range a.Cfg.Profiles {
		if strings.HasPrefix(profile.Name, toComplete) {
			names = append(names, profile.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// AddNoHeadersFlag installs --no-headers on cmd.
func (a *App) AddNoHeadersFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&a.NoHeaderFlag, "no-headers", false, "Hide table headers")
}
