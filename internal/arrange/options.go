package arrange

import "github.com/dshills/rearrange/internal/logging"

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy selects the write strategy.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

// WithBlankLines sets the blank-line policy. Without it spacing is left
// as it is.
func WithBlankLines(f BlankLinesFunc) Option {
	return func(e *Engine) {
		if f != nil {
			e.blankLines = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLanguageSettings uses s for sibling lists of language lang.
func WithLanguageSettings(lang string, s *Settings) Option {
	return func(e *Engine) {
		e.languages[lang] = s
	}
}
