package testUtils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pborman/uuid"
	"github.com/stretchr/testify/assert"
)

// RandomMCN returns a random MC-number-shaped identifier for tests.
func RandomMCN() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.New(), "-", ""))
	return "1" + hex[0:6]
}

// RandomHexID returns a random hex identifier for tests.
func RandomHexID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New(), "-", ""))
}

// WriteTempFile writes contents under dir and returns the full path.
func WriteTempFile(t *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(contents), 0600)
	assert.NoError(t, err)
	return path
}
