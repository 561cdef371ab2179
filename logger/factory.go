package logger

import (
	"io"
	"os"
	"sync"

	"github.com/arf-rpc/toolbox/locks"
)

// Constructor builds the Logger handed out for a tag.
type Constructor func(w io.Writer, tag string, cfg Config) *Logger

// Factory hands out tagged loggers sharing one output and constructor.
type Factory struct {
	mu  sync.RWMutex
	w   io.Writer
	ctr Constructor
}

// NewFactory returns a Factory writing to w, or to stderr when w is nil.
// Loggers from the same Factory never interleave their lines.
func NewFactory(w io.Writer) *Factory {
	if w == nil {
		w = os.Stderr
	}
	return &Factory{w: &syncWriter{w: w}, ctr: New}
}

type syncWriter struct {
	mu locks.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Setup replaces the constructor used by later calls to Get. A nil
// constructor restores New.
func (f *Factory) Setup(ctr Constructor) {
	if ctr == nil {
		ctr = New
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctr = ctr
}

// Get returns a logger for tag. A nil cfg means ConfigFromEnv; an explicit
// cfg wins, except that an empty Level is still taken from the environment.
func (f *Factory) Get(tag string, cfg *Config) *Logger {
	c := ConfigFromEnv()
	if cfg != nil {
		level := c.Level
		c = *cfg
		if c.Level == "" {
			c.Level = level
		}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ctr(f.w, tag, c)
}
