package verify

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/credpaste/credpaste/pkg/app"
	"github.com/credpaste/credpaste/pkg/verify"
)

// NewCommand returns the "credpaste verify" command.
func NewCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [FILE]",
		Short: "Check that a file survives an encode/decode round trip",
		Long: "Encode the file (or stdin), decode the result, and compare SHA-256 digests " +
			"of both sides. A mismatch prints a diagnostic with lengths, digests and " +
			"payload previews, and exits non-zero.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			data, err := a.ReadInput(path)
			if err != nil {
				return err
			}

			r := verify.Run(a.Codec, data)
			if !r.OK {
				r.Report(a.ErrWriter)
				return fmt.Errorf("verification failed")
			}

			fmt.Fprintf(a.OutWriter, "OK: %d bytes -> %d symbols, sha256 %s\n",
				r.OriginalLen, len(r.Encoded), r.OriginalDigest)
			return nil
		},
	}
}
