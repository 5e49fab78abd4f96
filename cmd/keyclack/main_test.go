package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cbegin/keyclack-go/internal/input"
)

func TestBannerUsesCRLF(t *testing.T) {
	var buf bytes.Buffer
	writeBanner(&buf)
	out := buf.String()
	if !strings.Contains(out, "KEYCLACK") {
		t.Fatalf("banner missing title: %q", out)
	}
	if n := strings.Count(out, "\n"); n != strings.Count(out, "\r\n") || n == 0 {
		t.Fatalf("found bare newline in banner: %q", out)
	}
}

func TestExplicitDeviceFailureIsNoKeyboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event0")
	_, err := openKeyboard(path)
	if !errors.Is(err, input.ErrNoKeyboard) {
		t.Fatalf("err = %v, want ErrNoKeyboard", err)
	}
	if !strings.Contains(err.Error(), "event0") {
		t.Fatalf("err = %v, want device path in message", err)
	}
}
