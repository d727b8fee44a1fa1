package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12, "12s"},
		{"minutes", 61, "1m"},
		{"hours_only", 2*60*60 + 10, "2h"},
		{"hours_minutes", 2*60*60 + 3*60, "2h 3m"},
		{"days", 24 * 60 * 60, "1d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeDuration(timeSeconds(tc.in))
			if got != tc.want {
				t.Fatalf("humanizeDuration(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatRecordingDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "00:00"},
		{0, "00:00"},
		{12500 * time.Millisecond, "00:12"},
		{61 * time.Second, "01:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tc := range cases {
		if got := formatRecordingDuration(tc.in); got != tc.want {
			t.Fatalf("formatRecordingDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 0); got != "" {
		t.Fatalf("truncate zero = %q, want empty", got)
	}
	if got := truncate("hello", 10); got != "hello" {
		t.Fatalf("truncate short = %q, want hello", got)
	}
	if got := truncate("hello world", 8); got != "hello..." {
		t.Fatalf("truncate = %q, want hello...", got)
	}
	if got := truncate("héllo", 2); got != "hé" {
		t.Fatalf("truncate runes = %q, want hé", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle tiny limit = %q, want ab", got)
	}
	got := truncateMiddle("/home/user/.local/state/gazer/gazer.log", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("got %q (%d runes), want 20", got, len([]rune(got)))
	}
	if got[len(got)-9:] != "gazer.log" {
		t.Fatalf("truncateMiddle dropped the file name: %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(999); got != "999 B" {
		t.Fatalf("formatBytes = %q, want 999 B", got)
	}
	if got := formatBytes(1024); got != "1.00 KiB" {
		t.Fatalf("formatBytes = %q, want 1.00 KiB", got)
	}
	if got := formatBytes(1024 * 1024); got != "1.00 MiB" {
		t.Fatalf("formatBytes = %q, want 1.00 MiB", got)
	}
	if got := formatBytes(52 * 1024 * 1024 * 1024); got != "52.00 GiB" {
		t.Fatalf("formatBytes = %q, want 52.00 GiB", got)
	}
}

func timeSeconds(sec int64) time.Duration {
	return time.Duration(sec) * time.Second
}
