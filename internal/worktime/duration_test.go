package worktime

import "testing"

func TestHoursBetween(t *testing.T) {
	cases := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "17:00", 8.0},
		{"22:00", "02:00", 4.0},
		{"18:00", "23:30", 5.5},
		{"12:00", "12:00", 24.0},
		{"00:00", "00:00", 24.0},
		{"23:59", "00:00", 0.0},
		{"10:00", "10:03", 0.1},
		{"10:00", "10:02", 0.0},
		{"10:00", "10:20", 0.3},
		{"08:15", "08:14", 24.0},
		{"00:00", "23:59", 24.0},
		{"19:45", "01:10", 5.4},
	}

	for _, tc := range cases {
		got, err := HoursBetween(tc.start, tc.end)
		if err != nil {
			t.Fatalf("HoursBetween(%s, %s): %v", tc.start, tc.end, err)
		}
		if got != tc.want {
			t.Errorf("HoursBetween(%s, %s) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, value := range []string{"", "9:00", "24:00", "12:60", "ab:cd", "12-30", "12:3", "12:30:00"} {
		if _, err := ParseClock(value); err == nil {
			t.Errorf("ParseClock(%q) expected error", value)
		}
	}
}

func TestClockTimeString(t *testing.T) {
	c, err := ParseClock("07:05")
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != "07:05" || c.Minutes() != 425 {
		t.Fatalf("unexpected clock %v (%d minutes)", c, c.Minutes())
	}
}
