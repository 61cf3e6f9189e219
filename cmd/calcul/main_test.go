package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/KOMKZ/go-yogan-calcul/dao"
	"github.com/KOMKZ/go-yogan-calcul/metier"
	"github.com/KOMKZ/go-yogan-calcul/presentation"
	"github.com/KOMKZ/go-yogan-calcul/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func resultLine(t float64) string {
	return presentation.Label + presentation.FormatValue(metier.Formula(t)) + "\n"
}

func TestRun_Default(t *testing.T) {
	code, stdout, stderr := execute("--config-dir", t.TempDir())

	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, resultLine(2.0), stdout)
	assert.Contains(t, stdout, "Resultat : -15.688366")
}

func TestRun_ValueZero(t *testing.T) {
	code, stdout, _ := execute("--config-dir", t.TempDir(), "--value", "0")

	assert.Equal(t, 0, code)
	assert.Equal(t, "Resultat : 0.0\n", stdout)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := testutil.TempConfigDir(t, map[string]string{
		"config.yaml": "dao:\n  value: 1\nlogger:\n  level: error\n",
		"prod.yaml":   "dao:\n  value: 3\n",
	})

	code, stdout, stderr := execute("-c", dir)
	assert.Equal(t, 0, code)
	assert.Equal(t, resultLine(1), stdout)
	assert.Empty(t, stderr)

	code, stdout, _ = execute("-c", dir, "-e", "prod")
	assert.Equal(t, 0, code)
	assert.Equal(t, resultLine(3), stdout)
}

func TestRun_ExitCodes(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.txt")

	tests := []struct {
		name   string
		config string
		args   []string
		want   int
	}{
		{"invalid driver", "", []string{"--driver", "http"}, 5},
		{"invalid log level", "", []string{"--log-level", "verbose"}, 5},
		{"file driver without path", "dao:\n  driver: file\n", nil, 5},
		{"missing file", fmt.Sprintf("dao:\n  driver: file\n  path: %q\n", missing), nil, dao.ExitDataUnavailable},
		{"unknown redis connection", "dao:\n  driver: redis\n  key: t\n", nil, 5},
		{"unexpected argument", "", []string{"extra"}, 1},
		{"unknown flag", "", []string{"--nope"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.TempConfigDir(t, map[string]string{"config.yaml": tt.config})
			code, stdout, stderr := execute(append([]string{"-c", dir}, tt.args...)...)

			assert.Equal(t, tt.want, code, stderr)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestRun_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("sensor:t", "0.5"))

	dir := testutil.TempConfigDir(t, map[string]string{"config.yaml": fmt.Sprintf(`
dao:
  driver: redis
  key: "sensor:t"
  connection: main
redis:
  instances:
    main:
      addr: %q
`, mr.Addr())})

	code, stdout, stderr := execute("-c", dir)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, resultLine(0.5), stdout)

	mr.Del("sensor:t")
	code, stdout, _ = execute("-c", dir)
	assert.Equal(t, dao.ExitDataUnavailable, code)
	assert.Empty(t, stdout)
}

func TestRun_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	dir := testutil.TempConfigDir(t, map[string]string{"config.yaml": fmt.Sprintf(
		"dao:\n  driver: redis\n  key: t\n  connection: main\nredis:\n  instances:\n    main:\n      addr: %q\n      max_retries: -1\n", addr)})

	code, stdout, _ := execute("-c", dir)
	assert.Equal(t, dao.ExitDataUnavailable, code)
	assert.Empty(t, stdout)
}

func TestRun_Database(t *testing.T) {
	tc, cleanup := testutil.NewCLITestContext(t, testutil.CLITestOptions{
		Config: map[string]interface{}{
			"dao": map[string]interface{}{"driver": "database", "key": "t"},
		},
	})
	defer cleanup()
	require.NoError(t, tc.Measurements.Put(context.Background(), "t", 0.25))

	code, stdout, stderr := execute("-c", tc.ConfigDir)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, resultLine(0.25), stdout)

	require.NoError(t, tc.Measurements.Remove(context.Background(), "t"))
	code, stdout, _ = execute("-c", tc.ConfigDir)
	assert.Equal(t, dao.ExitDataUnavailable, code)
	assert.Empty(t, stdout)
}

func TestRun_Telemetry(t *testing.T) {
	dir := testutil.TempConfigDir(t, map[string]string{
		"config.yaml": "logger:\n  level: error\ntelemetry:\n  enabled: true\n  exporter:\n    type: stdout\n",
	})

	code, stdout, stderr := execute("-c", dir)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, resultLine(2.0), stdout)
	assert.Contains(t, stderr, presentation.SpanName)
}
