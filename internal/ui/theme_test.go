package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range cases {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q, want Nightfox fallback", got)
	}
}

func TestThemesDefineEveryStatusColor(t *testing.T) {
	statuses := []string{statusRecording, statusIdle, statusSaved, statusDiscarded, statusError, statusOffline, statusOnline}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, s := range statuses {
			if th.StatusColors[s] == "" {
				t.Fatalf("theme %s has no color for %q", name, s)
			}
		}
	}
}

func TestBatteryStyleThresholds(t *testing.T) {
	styles := GetTheme("Nightfox").Styles()

	if got := styles.batteryStyle(10).GetForeground(); got != styles.DangerText.GetForeground() {
		t.Fatalf("battery 10%% foreground = %v, want danger", got)
	}
	if got := styles.batteryStyle(20).GetForeground(); got != styles.WarningText.GetForeground() {
		t.Fatalf("battery 20%% foreground = %v, want warning", got)
	}
	if got := styles.batteryStyle(80).GetForeground(); got != styles.SuccessText.GetForeground() {
		t.Fatalf("battery 80%% foreground = %v, want success", got)
	}
}
