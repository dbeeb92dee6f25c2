package mdpreview

import (
	"github.com/riverfjs/mdpreview-go/internal/logging"
	"github.com/riverfjs/mdpreview-go/internal/logging/gologger"
)

// StructuredLogger 分级结构化日志接口
type StructuredLogger = logging.Logger

// Logger 全局日志记录器。解析引擎本身不写日志，预览管道和图表渲染会写。
var Logger = defaultLogger()

func defaultLogger() StructuredLogger {
	provider, err := gologger.NewProvider(gologger.Config{Level: "warn", Format: "console"})
	if err != nil {
		return logging.NoOp()
	}
	return logging.ModuleLogger(provider, "mdpreview")
}

// SetLogger 设置自定义日志记录器，nil 表示关闭日志
func SetLogger(logger StructuredLogger) {
	if logger == nil {
		logger = logging.NoOp()
	}
	Logger = logger
}
