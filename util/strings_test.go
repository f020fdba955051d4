package util

import "testing"

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "osm", "google"); got != "osm" {
		t.Errorf("Coalesce = %q, want osm", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce of empties = %q, want empty", got)
	}
	if got := Coalesce(0, 3); got != 3 {
		t.Errorf("Coalesce(0, 3) = %d, want 3", got)
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  Ottawa  ", "Ottawa"},
		{"removes control chars", "Ott\x00awa", "Ottawa"},
		{"tab becomes space", "Ottawa\tON", "Ottawa ON"},
		{"crlf line", "Toronto\r", "Toronto"},
		{"byte order mark", "\ufeffOttawa", "Ottawa"},
		{"keeps accents", " Montréal ", "Montréal"},
		{"empty string", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeString(tc.input); got != tc.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeEnvValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips double quotes", `"key"`, "key"},
		{"strips single quotes", `'key'`, "key"},
		{"strips quotes and trims", `  " key "  `, "key"},
		{"no quotes", "key", "key"},
		{"empty string", "", ""},
		{"mismatched quotes", `"key'`, `"key'`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeEnvValue(tc.input); got != tc.want {
				t.Errorf("SanitizeEnvValue(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input  string
		prefix int
		want   string
	}{
		{"AIzaSyD-secret", 4, "AIza***"},
		{"abcd", 4, "***"},
		{"", 2, "***"},
		{"password", 0, "***"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := MaskSecret(tc.input, tc.prefix); got != tc.want {
				t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.input, tc.prefix, got, tc.want)
			}
		})
	}
}
