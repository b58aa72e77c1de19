package llm

import "context"

// Option allows optional generation parameters.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider is the generation gateway. An empty string with a nil error
// means the upstream reported success without content; callers treat it
// as degraded, not fatal. Deadlines are owned by the caller's context.
type Provider interface {
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// GenerateStream emits generated segments through onToken as they
	// arrive. A non-nil error from onToken stops the stream.
	GenerateStream(ctx context.Context, prompt string, onToken func(token string) error, options ...Option) error
}
