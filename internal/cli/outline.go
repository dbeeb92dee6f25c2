package cli

import (
	"bytes"
	"encoding/json"

	"github.com/adrg/frontmatter"
	"github.com/spf13/cobra"

	mdpreview "github.com/riverfjs/mdpreview-go"
)

type outlineOutput struct {
	Outline []mdpreview.Heading `json:"outline"`
	Stats   mdpreview.Stats     `json:"stats"`
}

func newOutlineCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "outline <file|->",
		Short: "Print headings and document statistics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			meta := map[string]any{}
			body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(outlineOutput{
				Outline: mdpreview.Outline(string(body)),
				Stats:   mdpreview.CountWords(string(body)),
			})
		},
	}
}
