package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/credpaste/credpaste/pkg/app"
	"github.com/credpaste/credpaste/pkg/config"
	"github.com/credpaste/credpaste/pkg/provider"
	"github.com/credpaste/credpaste/pkg/verify"
)

// NewCommand returns the "credpaste setup" command: provision the active
// profile's credential, verify it, and print the pasteable string.
func NewCommand(a *app.App) *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision a credential for the active profile and print it encoded",
		Long: "Drive the active profile's cloud CLI end to end: enable services, create " +
			"the service account, grant roles, mint a key file, then verify the " +
			"encode/decode round trip and print the encoded key. Superseded key files " +
			"from earlier runs are deleted after confirmation.",
		Example: `  credpaste setup
  credpaste setup --profile class-demo --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.RequireProfile()
			if err != nil {
				return err
			}

			prov, err := provider.Get(p.Provider)
			if err != nil {
				return err
			}

			return runSetup(cmd.Context(), a, prov, p, yesFlag)
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Assume yes for all prompts")
	return cmd
}

func runSetup(ctx context.Context, a *app.App, prov provider.Provider, p *config.Profile, yes bool) error {
	acc := provider.Account{
		Project: p.Project,
		Name:    p.Account,
		Roles:   p.Roles,
	}

	fmt.Fprintf(a.OutWriter, "Enabling services in %s...\n", p.Project)
	if err := prov.EnableServices(ctx, acc); err != nil {
		return err
	}

	// Some providers mint the account together with the key; only narrate
	// the account and role steps when they actually do the work.
	deferred := prov.KeyCreatesAccount()

	if !deferred {
		fmt.Fprintf(a.OutWriter, "Creating account %s...\n", p.Account)
	}
	if err := prov.CreateAccount(ctx, acc); err != nil {
		return err
	}

	if len(p.Roles) > 0 && !deferred {
		fmt.Fprintf(a.OutWriter, "Granting roles: %s\n", strings.Join(p.Roles, ", "))
	}
	if err := prov.GrantRoles(ctx, acc); err != nil {
		return err
	}

	basePath, err := p.ResolveKeyFile()
	if err != nil {
		return err
	}
	keyPath := stampedPath(basePath, time.Now())

	if deferred {
		fmt.Fprintf(a.OutWriter, "Creating account %s and key %s...\n", p.Account, keyPath)
	} else {
		fmt.Fprintf(a.OutWriter, "Creating key %s...\n", keyPath)
	}
	key, err := prov.CreateKey(ctx, acc, keyPath)
	if err != nil {
		return err
	}

	r := verify.Run(a.Codec, key)
	if !r.OK {
		r.Report(a.ErrWriter)
		if !yes {
			if err := confirm("Verification failed. Emit the encoded string anyway"); err != nil {
				return fmt.Errorf("aborted after verification failure")
			}
		}
	}

	fmt.Fprintf(a.OutWriter, "\nPaste the following into the form:\n\n%s\n", r.Encoded)

	return removeSuperseded(a, basePath, keyPath, yes)
}

// stampedPath turns keys/demo.json into keys/demo-<unixtime>.json so every
// run mints a distinct file and older ones are recognizable.
func stampedPath(base string, now time.Time) string {
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), now.Unix(), ext)
}

// removeSuperseded deletes earlier key files for the same profile, asking
// first unless --yes was given.
func removeSuperseded(a *app.App, base, current string, yes bool) error {
	ext := filepath.Ext(base)
	matches, err := filepath.Glob(strings.TrimSuffix(base, ext) + "-*" + ext)
	if err != nil {
		return nil
	}

	var old []string
	for _, m := range matches {
		if m != current {
			old = append(old, m)
		}
	}
	if len(old) == 0 {
		return nil
	}

	if !yes {
		if err := confirm(fmt.Sprintf("Delete %d superseded key file(s)", len(old))); err != nil {
			fmt.Fprintf(a.OutWriter, "Keeping old key files.\n")
			return nil
		}
	}
	for _, m := range old {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("remove %s: %w", m, err)
		}
		fmt.Fprintf(a.OutWriter, "Removed %s\n", m)
	}
	return nil
}

func confirm(label string) error {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err
}
