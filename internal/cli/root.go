// Package cli 实现 mdpreview 命令行。
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdpreview "github.com/riverfjs/mdpreview-go"
	"github.com/riverfjs/mdpreview-go/internal/config"
	"github.com/riverfjs/mdpreview-go/internal/logging"
	"github.com/riverfjs/mdpreview-go/internal/logging/gologger"
)

// Version 由构建时 -ldflags 注入
var Version = "dev"

type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger logging.Logger
}

// NewRootCommand 构建根命令
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mdpreview",
		Short: "Render Markdown to preview HTML",
		Long: `mdpreview renders Markdown into HTML for live preview.

Examples:
  mdpreview render README.md                 # HTML to stdout
  mdpreview render README.md -o out.html
  mdpreview outline README.md                # headings and stats as JSON
  mdpreview serve README.md --addr :8080     # live preview with reload`,
		Version:           Version,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: ./mdpreview.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: console, json, pretty")

	root.AddCommand(
		newRenderCommand(a),
		newOutlineCommand(a),
		newServeCommand(a),
	)
	return root
}

// Execute 运行命令行，出错时以状态码 1 退出
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.ModuleLogger(provider, "mdpreview")
	mdpreview.SetLogger(a.logger)
	return nil
}

// renderConfig 将文件配置转为引擎配置
func (a *app) renderConfig() mdpreview.RenderConfig {
	return mdpreview.RenderConfig{
		DiagramLanguage: a.cfg.Render.DiagramLanguage,
		LinksInNewTab:   a.cfg.Render.LinksNewTab,
	}
}

func (a *app) previewConfig(render *mdpreview.RenderConfig) mdpreview.PreviewConfig {
	p := a.cfg.Preview
	cfg := mdpreview.PreviewConfig{
		Render:    render,
		Highlight: p.Highlight,
		Style:     p.Style,
		Sanitize:  p.Sanitize,
	}
	if p.Diagrams != mdpreview.DiagramsClient {
		cfg.Diagrams = mdpreview.NewDiagramRenderer(p.Diagrams, p.MermaidTheme)
	}
	return cfg
}

// readSource 读取文件，"-" 表示标准输入
func readSource(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
