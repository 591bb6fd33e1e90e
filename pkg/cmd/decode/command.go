package decode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/credpaste/credpaste/pkg/app"
)

// NewCommand returns the "credpaste decode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		prettyFlag bool
		outFlag    string
	)

	cmd := &cobra.Command{
		Use:   "decode [FILE]",
		Short: "Decode base62 text back into the original bytes",
		Long: "Decode an encoded string (from FILE or stdin) back into the original byte " +
			"sequence. Surrounding whitespace is trimmed; everything else must be inside " +
			"the alphabet, and the length must be even.",
		Example: `  credpaste decode encoded.txt
  pbpaste | credpaste decode --pretty
  credpaste decode encoded.txt --out key.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			raw, err := a.ReadInput(path)
			if err != nil {
				return err
			}

			decoded, err := a.Codec.Decode(strings.TrimSpace(string(raw)))
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}

			if prettyFlag && json.Valid(decoded) {
				pretty, err := a.Jsonfmt.Format(decoded)
				if err == nil {
					decoded = append(pretty, '\n')
				}
			}

			return a.WriteOutput(outFlag, decoded)
		},
	}

	cmd.Flags().BoolVar(&prettyFlag, "pretty", false, "Pretty-print the payload when it is JSON")
	cmd.Flags().StringVar(&outFlag, "out", "", "Write output to a file instead of stdout")
	return cmd
}
