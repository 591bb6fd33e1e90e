package profile

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/credpaste/credpaste/pkg/app"
	"github.com/credpaste/credpaste/pkg/config"
	"github.com/credpaste/credpaste/pkg/provider"
)

// NewCommand returns the "credpaste profile" command with subcommands.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Handle credpaste profiles",
	}

	cmd.AddCommand(
		newCurrentCommand(a),
		newUseProfileCommand(a),
		newGetProfilesCommand(a),
		newAddProfileCommand(a),
		newRemoveProfileCommand(a),
		newSelectProfileCommand(a),
	)

	return cmd
}

func newCurrentCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Displays the current profile",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.OutWriter, a.Cfg.CurrentProfile)
		},
	}
}

func newUseProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "use-profile [NAME]",
		Short:             "Sets the current profile in the configuration",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidProfileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := a.Cfg.SetCurrentProfile(name); err != nil {
				return fmt.Errorf("profile with name %v not found", name)
			}
			fmt.Fprintf(a.OutWriter, "Switched to profile \"%v\".\n", name)
			return nil
		},
	}
}

func newGetProfilesCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-profiles",
		Short: "Display profiles in the configuration file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if !a.NoHeaderFlag {
				fmt.Fprintln(a.OutWriter, "  NAME\tPROVIDER\tPROJECT")
			}
			for _, profile := range a.Cfg.Profiles {
				marker := "  "
				if profile.Name == a.Cfg.CurrentProfile {
					marker = "* "
				}
				fmt.Fprintf(a.OutWriter, "%s%s\t%s\t%s\n", marker, profile.Name, profile.Provider, profile.Project)
			}
		},
	}
	a.AddNoHeadersFlag(cmd)
	return cmd
}

func newAddProfileCommand(a *app.App) *cobra.Command {
	var (
		providerFlag string
		projectFlag  string
		accountFlag  string
		rolesFlag    []string
		keyFileFlag  string
	)

	cmd := &cobra.Command{
		Use:   "add-profile [NAME]",
		Short: "Add profile",
		Example: `  credpaste profile add-profile class-demo \
    --provider gcp --project demo-project-1234 \
    --account form-uploader --role roles/storage.objectViewer`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if a.Cfg.HasProfile(name) {
				return fmt.Errorf("could not add profile: profile with name '%v' exists already", name)
			}
			if _, err := provider.Get(providerFlag); err != nil {
				return err
			}

			a.Cfg.Profiles = append(a.Cfg.Profiles, &config.Profile{
				Name:     name,
				Provider: providerFlag,
				Project:  projectFlag,
				Account:  accountFlag,
				Roles:    rolesFlag,
				KeyFile:  keyFileFlag,
			})
			if a.Cfg.CurrentProfile == "" {
				a.Cfg.CurrentProfile = name
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Added profile.")
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFlag, "provider", "", "Cloud provider, one of: "+strings.Join(provider.Names(), ", "))
	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id (GCP) or subscription id (Azure)")
	cmd.Flags().StringVar(&accountFlag, "account", "", "Service account / service principal name")
	cmd.Flags().StringSliceVar(&rolesFlag, "role", nil, "Role to grant, repeatable")
	cmd.Flags().StringVar(&keyFileFlag, "key-file", "", "Where to store minted key files (default $HOME/.credpaste/keys/<name>.json)")
	cmd.MarkFlagRequired("provider")
	cmd.MarkFlagRequired("project")
	return cmd
}

func newRemoveProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "remove-profile [NAME]",
		Short:             "remove profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidProfileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			pos := -1
			for i, profile := range a.Cfg.Profiles {
				if profile.Name == name {
					pos = i
					break
				}
			}

			if pos == -1 {
				return fmt.Errorf("could not delete profile: profile with name '%v' does not exist", name)
			}

			a.Cfg.Profiles = append(a.Cfg.Profiles[:pos], a.Cfg.Profiles[pos+1:]...)
			if a.Cfg.CurrentProfile == name {
				a.Cfg.CurrentProfile = ""
			}

			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Removed profile.")
			return nil
		},
	}
}

func newSelectProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "select-profile",
		Short: "Interactively select a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var profileNames []string
			pos := 0
			for k, profile := range a.Cfg.Profiles {
				profileNames = append(profileNames, profile.Name)
				if profile.Name == a.Cfg.CurrentProfile {
					pos = k
				}
			}

			searcher := func(input string, index int) bool {
				profile := profileNames[index]
				name := strings.ReplaceAll(strings.ToLower(profile), " ", "")
				input = strings.ReplaceAll(strings.ToLower(input), " ", "")
				return strings.Contains(name, input)
			}

			p := promptui.Select{
				Label:     "Select profile",
				Items:     profileNames,
				Searcher:  searcher,
				Size:      10,
				CursorPos: pos,
			}

			_, selected, err := p.Run()
			if err != nil {
				// User cancelled (e.g. Ctrl-C). Not an error.
				return nil
			}

			if err := a.Cfg.SetCurrentProfile(selected); err != nil {
				return fmt.Errorf("profile with name %v not found", selected)
			}
			fmt.Fprintf(a.OutWriter, "Switched to profile \"%v\".\n", selected)
			return nil
		},
	}
}
