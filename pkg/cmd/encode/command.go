package encode

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"

	"github.com/credpaste/credpaste/pkg/app"
	"github.com/credpaste/credpaste/pkg/verify"
)

// NewCommand returns the "credpaste encode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		noVerifyFlag bool
		templateFlag string
		outFlag      string
	)

	cmd := &cobra.Command{
		Use:   "encode [FILE]",
		Short: "Encode a credential file as pasteable base62 text",
		Long: "Encode a file (or stdin) as printable base62 text, two symbols per byte. " +
			"The result round-trips through the decoder and is digest-compared against " +
			"the input before it is printed; --no-verify skips that check.",
		Example: `  credpaste encode key.json
  cat key.json | credpaste encode
  credpaste encode key.json --out encoded.txt
  credpaste encode key.json --template '{"blob":"{{ .Encoded }}","bytes":{{ .Length }}}'`,
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

			if !noVerifyFlag {
				r := verify.Run(a.Codec, data)
				if !r.OK {
					r.Report(a.ErrWriter)
					return fmt.Errorf("round-trip verification failed, not emitting the encoded string")
				}
			}

			out := a.Codec.Encode(data)
			if templateFlag != "" {
				out, err = renderTemplate(templateFlag, out, len(data))
				if err != nil {
					return err
				}
			}

			return a.WriteOutput(outFlag, []byte(out+"\n"))
		},
	}

	cmd.Flags().BoolVar(&noVerifyFlag, "no-verify", false, "Skip the encode/decode round-trip check")
	cmd.Flags().StringVar(&templateFlag, "template", "", "Render output through a go template with sprig functions. Variables: .Encoded, .Length")
	cmd.Flags().StringVar(&outFlag, "out", "", "Write output to a file instead of stdout")
	return cmd
}

func renderTemplate(text, encoded string, length int) (string, error) {
	tpl, err := template.New("credpaste").Funcs(sprig.HermeticTxtFuncMap()).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse go template: %w", err)
	}
	var sb strings.Builder
	err = tpl.Execute(&sb, map[string]any{
		"Encoded": encoded,
		"Length":  length,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render go template: %w", err)
	}
	return sb.String(), nil
}
