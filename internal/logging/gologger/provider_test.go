package gologger

import (
	"testing"
)

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewProviderAcceptsSupportedFormats(t *testing.T) {
	for _, format := range []string{"", "json", "console", "pretty"} {
		provider, err := NewProvider(Config{Format: format, Level: "debug"})
		if err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
		if provider.GetLogger("publisher.workflow") == nil {
			t.Fatalf("format %q: expected logger instance", format)
		}
	}
}

func TestGetLoggerNilProviderFallsBack(t *testing.T) {
	var provider *Provider
	if provider.GetLogger("anything") == nil {
		t.Fatal("expected no-op fallback for nil provider")
	}
}

func TestNormalizeLevel(t *testing.T) {
	cases := map[string]bool{
		"trace":   true,
		"debug":   true,
		"info":    true,
		"warn":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
		"":        false,
		"verbose": false,
	}
	for input, want := range cases {
		got := normalizeLevel(input) != ""
		if got != want {
			t.Fatalf("normalizeLevel(%q): mapped=%v, want %v", input, got, want)
		}
	}
}

func TestNormalizeFocus(t *testing.T) {
	out := normalizeFocus([]string{" publisher.workflow ", "", "publisher.notify"})
	if len(out) != 2 {
		t.Fatalf("expected blank entries dropped, got %v", out)
	}
	if out[0] != "publisher.workflow" || out[1] != "publisher.notify" {
		t.Fatalf("expected trimmed names, got %v", out)
	}
}
