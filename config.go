package mdpreview

import (
	"sync"

	"github.com/riverfjs/mdpreview-go/internal/types"
)

// 导出类型别名
type RenderConfig = types.RenderConfig
type ImageResolver = types.ImageResolver

var (
	defaultConfig     *RenderConfig
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the default render configuration (singleton).
// Callers must not modify it; copy it first.
func DefaultConfig() *RenderConfig {
	defaultConfigOnce.Do(func() {
		defaultConfig = types.DefaultRenderConfig()
	})
	return defaultConfig
}
