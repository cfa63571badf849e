package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		want  log.Level
	}{
		{level: "warn", want: log.WarnLevel},
		{level: "error", want: log.ErrorLevel},
		{level: "warn", debug: true, want: log.DebugLevel},
		{level: "loud", want: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&bytes.Buffer{}, tt.level, tt.debug)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}
