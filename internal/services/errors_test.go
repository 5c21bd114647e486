package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"maqamat/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "tidy", "run", "tidy exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"tidy", "run", "tidy exited", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, services.ExitOK},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "load", "bad", nil), services.ExitConfiguration},
		{"external tool", services.Wrap(services.ErrExternalTool, "tidy", "run", "", errors.New("exit 2")), services.ExitExternalTool},
		{"timeout", fmt.Errorf("fetch: %w", services.Wrap(services.ErrTimeout, "reference", "get", "", nil)), services.ExitExternalTool},
		{"validation", services.Wrap(services.ErrValidation, "render", "assemble", "", nil), services.ExitFailure},
		{"plain", errors.New("plain"), services.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}
