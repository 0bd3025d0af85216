package util

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"
)

func CreateTempFile(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	return filepath.Join(tempDir, fmt.Sprintf("framedb-test-%d.dat", rand.Intn(100)+10))
}
