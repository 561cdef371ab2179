package logger

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("level: debug\nshowColor: true\n"))
		require.NoError(t, err)
		assert.Equal(t, Config{Level: "debug", ShowColor: true, ShowDate: true}, cfg)
	})

	t.Run("empty document yields defaults", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("level: chatty\n"))
		assert.ErrorIs(t, err, ErrInvalidLevel)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("level: [\n"))
		assert.Error(t, err)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	assert.Equal(t, Config{Level: "error", ShowDate: true}, ConfigFromEnv())

	t.Setenv(EnvLevel, "")
	assert.Equal(t, DefaultConfig(), ConfigFromEnv())
}

func TestFactory(t *testing.T) {
	t.Run("nil config reads the environment", func(t *testing.T) {
		t.Setenv(EnvLevel, "debug")
		var buf bytes.Buffer
		f := NewFactory(&buf)

		l := f.Get("svc", nil)
		assert.Equal(t, DebugLevel, l.Level())
		assert.Equal(t, "svc", l.Tag())
	})

	t.Run("explicit config wins", func(t *testing.T) {
		t.Setenv(EnvLevel, "debug")
		var buf bytes.Buffer
		f := NewFactory(&buf)

		l := f.Get("svc", &Config{Level: "error"})
		assert.Equal(t, ErrorLevel, l.Level())

		l = f.Get("svc", &Config{ShowDate: false})
		assert.Equal(t, DebugLevel, l.Level())
		l.Debug("ready")
		assert.Equal(t, "[DEBUG] svc - ready\n", buf.String())
	})

	t.Run("Setup installs a constructor", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewFactory(&buf)

		var tags []string
		f.Setup(func(w io.Writer, tag string, cfg Config) *Logger {
			tags = append(tags, tag)
			cfg.ShowDate = false
			return New(w, strings.ToUpper(tag), cfg)
		})

		f.Get("db", &Config{Level: "info", ShowDate: true}).Info("up")
		assert.Equal(t, []string{"db"}, tags)
		assert.Equal(t, "[INFO] DB - up\n", buf.String())

		f.Setup(nil)
		assert.Equal(t, "cache", f.Get("cache", nil).Tag())
	})

	t.Run("concurrent loggers do not interleave lines", func(t *testing.T) {
		const (
			loggers = 8
			lines   = 200
			msg     = "abcdefghijklmnopqrstuvwxyz"
		)

		var buf bytes.Buffer
		f := NewFactory(&buf)

		var wg sync.WaitGroup
		for range loggers {
			l := f.Get("t", &Config{Level: "info", ShowDate: false})
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range lines {
					l.Info(msg)
				}
			}()
		}
		wg.Wait()

		got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, got, loggers*lines)
		for _, line := range got {
			assert.Equal(t, "[INFO] t - "+msg, line)
		}
	})
}
