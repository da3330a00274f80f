package handler

import "testing"

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"19:00", "19:00"},
		{true, "true"},
		{false, "false"},
		{float64(2), "2"},
		{float64(-7), "-7"},
		{2.5, "2.5"},
	}
	for _, tc := range cases {
		if got := stringify(tc.in); got != tc.want {
			t.Errorf("stringify(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStringFields(t *testing.T) {
	got := stringFields(map[string]any{
		"doors_time":  "19:00",
		"guest_count": float64(12),
		"has_rider":   true,
		"notes":       nil,
	})
	want := map[string]string{
		"doors_time":  "19:00",
		"guest_count": "12",
		"has_rider":   "true",
		"notes":       "",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("field %s = %q, want %q", k, got[k], v)
		}
	}
}
