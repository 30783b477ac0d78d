//go:build integration

package integration

import (
	"testing"

	"fxdesk/internal/testkit"
)

func TestMain(m *testing.M) {
	testkit.Run(m)
}
