// Package testctr holds helpers for tests backed by testcontainers.
package testctr

import (
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// SkipIfDockerNotAvailable skips the test when no healthy container runtime
// can be reached.
func SkipIfDockerNotAvailable(t *testing.T) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
}
