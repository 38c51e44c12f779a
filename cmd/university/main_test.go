package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MemoryDriver(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "university.log")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SEED_RANDOM", "7")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_FILE", logFile)

	var out bytes.Buffer
	script := "1\n19\ny\n2\nNo Such Course\nn\n"
	require.NoError(t, run(context.Background(), strings.NewReader(script), &out))

	assert.Contains(t, out.String(), "id 1. ")
	assert.Contains(t, out.String(), "This course is not exist!")
	assert.Equal(t, 2, strings.Count(out.String(), "Hello, select a request by entering a number"))

	logs, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logs), `"msg":"database initialized"`)
	assert.Contains(t, string(logs), `"msg":"university console stopped"`)
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")

	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
