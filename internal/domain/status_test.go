package domain

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		input string
		want  Status
	}{
		{"", StatusDraft},
		{"   ", StatusDraft},
		{"draft", StatusDraft},
		{"Published", StatusPublished},
		{"  ARCHIVED ", StatusArchived},
		{"scheduled", StatusScheduled},
	}

	for _, tc := range cases {
		if got := NormalizeStatus(tc.input); got != tc.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if !StatusArchived.IsTerminal() {
		t.Fatal("expected archived to be terminal")
	}
	for _, status := range []Status{StatusDraft, StatusProcessed, StatusPublished, StatusScheduled} {
		if status.IsTerminal() {
			t.Fatalf("expected %q to allow further transitions", status)
		}
	}
}
