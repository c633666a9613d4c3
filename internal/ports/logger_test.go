package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "debug", want: LevelDebug},
		{input: "INFO", want: LevelInfo},
		{input: "", want: LevelInfo},
		{input: " warning ", want: LevelWarn},
		{input: "error", want: LevelError},
		{input: "loud", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown log level")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

type recordingLogger struct {
	level Level
	msgs  []string
}

func (r *recordingLogger) Debug(_ context.Context, msg string, _ ...Field) {
	r.msgs = append(r.msgs, msg)
}

func (r *recordingLogger) Info(_ context.Context, msg string, _ ...Field) {
	r.msgs = append(r.msgs, msg)
}

func (r *recordingLogger) Warn(_ context.Context, msg string, _ ...Field) {
	r.msgs = append(r.msgs, msg)
}

func (r *recordingLogger) Error(_ context.Context, msg string, _ ...Field) {
	r.msgs = append(r.msgs, msg)
}

func (r *recordingLogger) With(_ ...Field) Logger { return r }

func (r *recordingLogger) Level() Level { return r.level }

func (r *recordingLogger) SetLevel(level Level) { r.level = level }

func TestLoggerContext(t *testing.T) {
	t.Parallel()

	assert.Nil(t, LoggerFromContext(context.Background()))

	logger := &recordingLogger{}
	ctx := ContextWithLogger(context.Background(), logger)

	got := LoggerFromContext(ctx)
	require.NotNil(t, got)
	got.Info(ctx, "batch installed")
	assert.Equal(t, []string{"batch installed"}, logger.msgs)

	wrong := context.WithValue(context.Background(), loggerKey{}, "not a logger")
	assert.Nil(t, LoggerFromContext(wrong))
}
