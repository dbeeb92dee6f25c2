// Package config 加载 mdpreview.yaml 与 MDPREVIEW_* 环境变量。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid 配置值不合法
var ErrInvalid = errors.New("invalid config")

// Config 全部配置
type Config struct {
	Render  RenderConfig  `mapstructure:"render"`
	Preview PreviewConfig `mapstructure:"preview"`
	Serve   ServeConfig   `mapstructure:"serve"`
	Log     LogConfig     `mapstructure:"log"`
}

// RenderConfig 解析引擎选项
type RenderConfig struct {
	DiagramLanguage string `mapstructure:"diagram_language"`
	LinksNewTab     bool   `mapstructure:"links_new_tab"`
}

// PreviewConfig 后处理选项
type PreviewConfig struct {
	Highlight    bool   `mapstructure:"highlight"`     // chroma 语法高亮
	Style        string `mapstructure:"style"`         // chroma 样式名
	Diagrams     string `mapstructure:"diagrams"`      // client, link 或 embed
	MermaidTheme string `mapstructure:"mermaid_theme"` // mermaid.ink 主题
	Sanitize     bool   `mapstructure:"sanitize"`
}

// ServeConfig 预览服务选项
type ServeConfig struct {
	Addr     string        `mapstructure:"addr"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// LogConfig 日志选项
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("render.diagram_language", "mermaid")
	v.SetDefault("render.links_new_tab", true)
	v.SetDefault("preview.highlight", true)
	v.SetDefault("preview.style", "github")
	v.SetDefault("preview.diagrams", "client")
	v.SetDefault("preview.mermaid_theme", "default")
	v.SetDefault("preview.sanitize", true)
	v.SetDefault("serve.addr", "127.0.0.1:8080")
	v.SetDefault("serve.debounce", 200*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// 默认值总能解码
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load 读取配置。path 为空时在当前目录和用户配置目录中查找 mdpreview.yaml，
// 找不到文件不是错误；显式给出的 path 必须存在。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MDPREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mdpreview")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "mdpreview"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查枚举值
func (c *Config) Validate() error {
	switch c.Preview.Diagrams {
	case "client", "link", "embed":
	default:
		return fmt.Errorf("%w: preview.diagrams must be client, link or embed, got %q", ErrInvalid, c.Preview.Diagrams)
	}
	if c.Serve.Debounce < 0 {
		return fmt.Errorf("%w: serve.debounce must not be negative", ErrInvalid)
	}
	return nil
}
