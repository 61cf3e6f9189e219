package logger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

// TestManagerConfig_ApplyDefaults fills zero values only
func TestManagerConfig_ApplyDefaults(t *testing.T) {
	cfg := ManagerConfig{Level: "debug"}
	cfg.ApplyDefaults()

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, "logs", cfg.BaseLogDir)
	assert.Equal(t, "trace_id", cfg.TraceIDFieldName)
	assert.Equal(t, 100, cfg.MaxSize)
	assert.False(t, cfg.EnableFile)
}

// TestManagerConfig_Validate table test for validation rules
func TestManagerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*ManagerConfig)
		wantErr bool
	}{
		{"defaults", func(c *ManagerConfig) {}, false},
		{"invalid level", func(c *ManagerConfig) { c.Level = "verbose" }, true},
		{"invalid encoding", func(c *ManagerConfig) { c.Encoding = "xml" }, true},
		{"max size too large", func(c *ManagerConfig) { c.MaxSize = 20000 }, true},
		{"file without dir", func(c *ManagerConfig) {
			c.EnableFile = true
			c.BaseLogDir = ""
		}, true},
		{"empty dir is fine without file output", func(c *ManagerConfig) { c.BaseLogDir = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultManagerConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestParseLevel maps names to zap levels
func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("unknown"))
}

// TestManagerConfig_FilePath builds module file names
func TestManagerConfig_FilePath(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.BaseLogDir = "/var/log/calcul"

	cfg.EnableDateInFilename = false
	assert.Equal(t, filepath.Join("/var/log/calcul", "dao", "dao-info.log"), cfg.filePath("dao", "info"))

	cfg.EnableLevelInFilename = false
	assert.Equal(t, filepath.Join("/var/log/calcul", "dao", "dao.log"), cfg.filePath("dao", "error"))

	cfg.EnableDateInFilename = true
	date := time.Now().Format(cfg.DateFormat)
	assert.Equal(t, filepath.Join("/var/log/calcul", "dao", "dao-"+date+".log"), cfg.filePath("dao", "info"))
}
