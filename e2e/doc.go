//go:build e2e

// Package e2e provides end-to-end tests that drive a real Chrome through
// the journey plans against the fixture application.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome browser (auto-downloaded by Rod if not present)
// and are intended for CI pipelines or explicit local testing.
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
//
// E2E tests use:
//   - pkg/browser for the Rod-backed journey.Session
//   - cmd/fixture-app/server as the application under test
//   - internal/cli for the full command path
//
// Test isolation:
// Each test starts its own fixture server with an in-memory store on a
// random port and launches its own browser instance.
package e2e
