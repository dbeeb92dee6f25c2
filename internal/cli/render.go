package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	mdpreview "github.com/riverfjs/mdpreview-go"
)

type renderOptions struct {
	out        string
	diagrams   string
	noSanitize bool
	raw        bool
}

func newRenderCommand(a *app) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a Markdown file to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write HTML to file instead of stdout")
	cmd.Flags().StringVar(&opts.diagrams, "diagrams", "", "Diagram mode: client, link, embed")
	cmd.Flags().BoolVar(&opts.noSanitize, "no-sanitize", false, "Skip HTML sanitizing")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Only run the parsing engine, no post-processing")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, opts *renderOptions, name string) error {
	source, err := readSource(cmd, name)
	if err != nil {
		return err
	}

	if opts.diagrams != "" {
		a.cfg.Preview.Diagrams = opts.diagrams
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}
	if opts.noSanitize {
		a.cfg.Preview.Sanitize = false
	}

	render := a.renderConfig()
	var html string
	if opts.raw {
		html = mdpreview.Convert(string(source), &render)
	} else {
		doc, err := mdpreview.Preview(cmd.Context(), source, a.previewConfig(&render))
		if err != nil {
			return err
		}
		html = doc.HTML
	}

	if opts.out == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
		return err
	}
	if dir := filepath.Dir(opts.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(opts.out, []byte(html+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	a.logger.Info("rendered", "out", opts.out, "bytes", len(html))
	return nil
}
