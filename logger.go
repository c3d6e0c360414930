package tileset

import (
	"log"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

// Logger is the optional diagnostics sink used by Registry, Watcher and the
// manifest loaders. Descriptors themselves never log.
type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
}

// NewLogger returns a Logger writing through the standard log package,
// dropping messages below level.
func NewLogger(level int) Logger {
	return &defaultLogger{level: level}
}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return &defaultLogger{level: SILENCE}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	if l.level <= DEBUG {
		log.Printf(msg+"\n", a...)
	}
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	if l.level <= INFO {
		log.Printf(msg+"\n", a...)
	}
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	if l.level <= WARNING {
		log.Printf(msg+"\n", a...)
	}
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	if l.level <= ERROR {
		log.Printf(msg+"\n", a...)
	}
}

// Option configures a Registry or Watcher.
type Option func(*options)

type options struct {
	logger Logger
}

// WithLogger injects a Logger. The default discards all output.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: NopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
