package mdpreview

// ConvertOptions holds options for markdown conversion.
type ConvertOptions struct {
	Config *RenderConfig
}

// Option is a function that configures ConvertOptions.
type Option func(*ConvertOptions)

// WithConfig sets a custom RenderConfig. The config is copied, so later
// options never modify the caller's value.
func WithConfig(config *RenderConfig) Option {
	return func(opts *ConvertOptions) {
		if config == nil {
			return
		}
		c := *config
		opts.Config = &c
	}
}

// WithImageResolver sets the callback that rewrites image paths.
func WithImageResolver(resolver ImageResolver) Option {
	return func(opts *ConvertOptions) {
		opts.Config.ImageResolver = resolver
	}
}

// WithDiagramLanguage sets the fence language rendered as a diagram container.
func WithDiagramLanguage(lang string) Option {
	return func(opts *ConvertOptions) {
		opts.Config.DiagramLanguage = lang
	}
}

// WithLinksInNewTab sets whether links open in a new tab.
func WithLinksInNewTab(enable bool) Option {
	return func(opts *ConvertOptions) {
		opts.Config.LinksInNewTab = enable
	}
}

// defaultConvertOptions returns the default conversion options.
func defaultConvertOptions() *ConvertOptions {
	c := *DefaultConfig()
	return &ConvertOptions{
		Config: &c,
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *ConvertOptions {
	options := defaultConvertOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
