// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package commons

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationLogger_Defaults(t *testing.T) {
	logger, err := NewApplicationLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewApplicationLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewApplicationLogger(
		Name("test-logger"),
		Path(dir),
		Level("info"),
		Console(false),
	)
	require.NoError(t, err)

	logger.Debugf("hidden %d", 1)
	logger.Infof("visible %d", 2)
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test-logger.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "visible 2"))
	assert.False(t, strings.Contains(string(data), "hidden 1"))
}

func TestNewApplicationLogger_InvalidLevel(t *testing.T) {
	_, err := NewApplicationLogger(Level("loud"))
	assert.Error(t, err)
}
