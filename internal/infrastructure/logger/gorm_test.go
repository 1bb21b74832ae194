package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

// observedGormLogger builds a GormLogger whose entries land in an observer
// so tests can inspect them.
func observedGormLogger(t *testing.T, capture zapcore.Level, level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	t.Helper()
	core, recorded := observer.New(capture)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

// documentQuery is a representative query the importer issues.
func documentQuery() (string, int64) {
	return "SELECT * FROM external_documents WHERE direction = ? AND document_number = ?", 1
}

func TestNewGormLogger_Defaults(t *testing.T) {
	gormLog, _ := observedGormLogger(t, zapcore.InfoLevel, gormlogger.Info)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	assert.Equal(t, 200*time.Millisecond, gormLog.slowThreshold)
	assert.True(t, gormLog.ignoreRecordNotFoundError)
}

func TestNewGormLogger_Options(t *testing.T) {
	gormLog, _ := observedGormLogger(t, zapcore.InfoLevel, gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gormLog.slowThreshold)
	assert.False(t, gormLog.ignoreRecordNotFoundError)
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := observedGormLogger(t, zapcore.InfoLevel, gormlogger.Info)

	changed := gormLog.LogMode(gormlogger.Warn)

	// The original stays untouched, LogMode returns a copy
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	changedGorm, ok := changed.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, changedGorm.logLevel)
}

func TestGormLogger_Messages(t *testing.T) {
	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		log       func(gl *GormLogger)
		wantCount int
		wantMsg   string
	}{
		{
			name:      "info passes at info level",
			level:     gormlogger.Info,
			log:       func(gl *GormLogger) { gl.Info(context.Background(), "migrating %s", "external_documents") },
			wantCount: 1,
			wantMsg:   "migrating external_documents",
		},
		{
			name:      "info suppressed when silent",
			level:     gormlogger.Silent,
			log:       func(gl *GormLogger) { gl.Info(context.Background(), "migrating external_documents") },
			wantCount: 0,
		},
		{
			name:      "warn passes at warn level",
			level:     gormlogger.Warn,
			log:       func(gl *GormLogger) { gl.Warn(context.Background(), "%d stale lines", 4) },
			wantCount: 1,
			wantMsg:   "4 stale lines",
		},
		{
			name:      "error passes at error level",
			level:     gormlogger.Error,
			log:       func(gl *GormLogger) { gl.Error(context.Background(), "connection lost") },
			wantCount: 1,
			wantMsg:   "connection lost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormLog, recorded := observedGormLogger(t, zapcore.DebugLevel, tt.level)

			tt.log(gormLog)

			logs := recorded.All()
			require.Len(t, logs, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Contains(t, logs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestGormLogger_Trace_Error(t *testing.T) {
	gormLog, recorded := observedGormLogger(t, zapcore.ErrorLevel, gormlogger.Error)

	gormLog.Trace(context.Background(), time.Now(), documentQuery, errors.New("constraint violated"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SQL Error")
}

func TestGormLogger_Trace_RecordNotFoundIgnored(t *testing.T) {
	gormLog, recorded := observedGormLogger(t, zapcore.ErrorLevel, gormlogger.Error,
		WithIgnoreRecordNotFoundError(true))

	// The importer's lookup-before-create path hits this on every new document
	gormLog.Trace(context.Background(), time.Now(), documentQuery, gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	gormLog, recorded := observedGormLogger(t, zapcore.WarnLevel, gormlogger.Warn,
		WithSlowThreshold(time.Nanosecond))

	begin := time.Now().Add(-time.Second)
	gormLog.Trace(context.Background(), begin, documentQuery, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SLOW SQL")
}

func TestGormLogger_Trace_NormalQuery(t *testing.T) {
	gormLog, recorded := observedGormLogger(t, zapcore.DebugLevel, gormlogger.Info)

	gormLog.Trace(context.Background(), time.Now(), documentQuery, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SQL Query")
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	gormLog, recorded := observedGormLogger(t, zapcore.DebugLevel, gormlogger.Silent)

	gormLog.Trace(context.Background(), time.Now(), documentQuery, nil)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_TagsSyncRun(t *testing.T) {
	gormLog, recorded := observedGormLogger(t, zapcore.DebugLevel, gormlogger.Info)

	ctx := context.WithValue(context.Background(), SyncRunIDKey, "run-42")
	gormLog.Trace(ctx, time.Now(), documentQuery, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)

	var runID string
	for _, field := range logs[0].Context {
		if field.Key == "sync_run_id" {
			runID = field.String
		}
	}
	assert.Equal(t, "run-42", runID, "queries must carry the sync run that issued them")
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"trace", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	var _ gormlogger.Interface = (*GormLogger)(nil)
}
