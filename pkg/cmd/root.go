package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/credpaste/credpaste/pkg/app"
	"github.com/credpaste/credpaste/pkg/cmd/completion"
	"github.com/credpaste/credpaste/pkg/cmd/decode"
	"github.com/credpaste/credpaste/pkg/cmd/encode"
	"github.com/credpaste/credpaste/pkg/cmd/profile"
	"github.com/credpaste/credpaste/pkg/cmd/setup"
	"github.com/credpaste/credpaste/pkg/cmd/verify"
)

// Execute is the single entry point for the CLI.
func Execute(version, commit string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New()

	root := &cobra.Command{
		Use:          "credpaste",
		Short:        "Render cloud credential files as pasteable plain text",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.OutWriter = cmd.OutOrStdout()
			a.ErrWriter = cmd.ErrOrStderr()
			a.InReader = cmd.InOrStdin()

			if a.OutWriter != os.Stdout {
				a.ColorableOut = a.OutWriter
			}

			return a.InitConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.CfgFile, "config", "", "config file (default is $HOME/.credpaste/config)")
	root.PersistentFlags().StringVarP(&a.ProfileOverride, "profile", "p", "", "set a temporary active profile")

	root.AddCommand(
		encode.NewCommand(a),
		decode.NewCommand(a),
		verify.NewCommand(a),
		setup.NewCommand(a),
		profile.NewCommand(a),
		completion.NewCommand(root, a),
	)

	a.Root = root
	return root.ExecuteContext(ctx)
}
