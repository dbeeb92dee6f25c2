package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riverfjs/mdpreview-go/internal/serve"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a live preview that reloads when the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Serve.Addr = addr
			}
			render := a.renderConfig()
			srv, err := serve.New(args[0], serve.Config{
				Addr:     a.cfg.Serve.Addr,
				Debounce: a.cfg.Serve.Debounce,
				Render:   render,
				Preview:  a.previewConfig(nil),
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
