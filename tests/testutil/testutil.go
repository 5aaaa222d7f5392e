package testutil

import (
	"fmt"
	"os"
)

// ForceTestEnvironment sets GO_ENV to test. Call it from TestMain before
// m.Run so package tests never resolve a development or production database
// through the config defaults.
func ForceTestEnvironment() error {
	if err := os.Setenv("GO_ENV", "test"); err != nil {
		return fmt.Errorf("failed to set GO_ENV=test: %w", err)
	}
	return nil
}
