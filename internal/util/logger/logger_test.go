package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	testCases := map[string]struct {
		level    string
		encoding string
		wantErr  bool
	}{
		"console debug": {level: "debug", encoding: "console"},
		"json warn":     {level: "warn", encoding: "json"},
		"default enc":   {level: "info", encoding: ""},
		"bad level":     {level: "loud", encoding: "console", wantErr: true},
		"bad encoding":  {level: "info", encoding: "xml", wantErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			l, err := New(tc.level, tc.encoding)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			want, _ := zapcore.ParseLevel(tc.level)
			assert.True(t, l.Core().Enabled(want))
			assert.False(t, l.Core().Enabled(want-1))
		})
	}
}

func TestInit(t *testing.T) {
	previous := Log
	t.Cleanup(func() { Log = previous })

	require.NoError(t, Init("error", "json"))
	assert.True(t, Log.Core().Enabled(zapcore.ErrorLevel))
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
}
