package handler

import "testing"

func TestExportFilename(t *testing.T) {
	cases := []struct {
		formType, name, date string
		version              int
		want                 string
	}{
		{"advance", "The National", "2026-11-12", 3, "Advance_The_National_2026-11-12_v3.pdf"},
		{"schedule", "The National", "2026-11-12", 1, "Schedule_The_National_2026-11-12_v1.pdf"},
		{"advance", "AC/DC: Live!", "2026-05-01", 2, "Advance_AC_DC__Live__2026-05-01_v2.pdf"},
		{"advance", "Undated Act", "", 1, "Advance_Undated_Act_v1.pdf"},
		{"advance", "   ", "2026-05-01", 1, "Advance_Show_2026-05-01_v1.pdf"},
	}
	for _, tc := range cases {
		if got := exportFilename(tc.formType, tc.name, tc.date, tc.version); got != tc.want {
			t.Errorf("exportFilename(%q, %q, %q, %d) = %q, want %q",
				tc.formType, tc.name, tc.date, tc.version, got, tc.want)
		}
	}
}
