package controllers

import (
	"log"
	"os"
	"testing"

	"github.com/framewave-studio/framewave-portal-api/tests/testutil"
)

// TestMain forces the test environment for the whole package so handler
// tests can never run against a real database
func TestMain(m *testing.M) {
	if err := testutil.ForceTestEnvironment(); err != nil {
		log.Fatalf("Failed to prepare test environment: %v", err)
	}

	os.Exit(m.Run())
}
