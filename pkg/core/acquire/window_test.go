package acquire

import "testing"

func TestParseDate_AllAcceptedFormats(t *testing.T) {
	cases := []string{"20250914", "2025-09-14", "2025/09/14", "2025.09.14", "2025年09月14日"}
	for _, s := range cases {
		got := ParseDate(s)
		if got.Format("20060102") != "20250914" {
			t.Errorf("ParseDate(%q) = %s, want 20250914", s, got.Format("20060102"))
		}
	}
}

func TestParseDate_InvalidFallsBackToToday(t *testing.T) {
	got := ParseDate("not-a-date")
	today := ParseDate("")
	if got.Format("20060102") != today.Format("20060102") {
		t.Errorf("ParseDate(invalid) should canonicalize to today")
	}
}

func TestCanonicalizeWindow_TwoCalendarYears(t *testing.T) {
	w := CanonicalizeWindow("20250914")
	if w.EndYYYYMMDD() != "20250914" {
		t.Fatalf("end = %s, want 20250914", w.EndYYYYMMDD())
	}
	if w.StartYYYYMMDD() != "20230914" {
		t.Fatalf("start = %s, want 20230914 (same month/day, 2 years back)", w.StartYYYYMMDD())
	}
}

func TestCanonicalizeWindow_LeapDayEdge(t *testing.T) {
	// 2024-02-29 minus 2 calendar years would be 2022-02-29, which does not
	// exist; AddDate normalizes it to 2022-03-01, so on this edge the start
	// is March 1 rather than the same month/day.
	w := CanonicalizeWindow("20240229")
	if w.StartYYYYMMDD() != "20220301" {
		t.Fatalf("start = %s, want 20220301", w.StartYYYYMMDD())
	}
}

func TestPrecedingDay(t *testing.T) {
	w := CanonicalizeWindow("20250914")
	prev := w.PrecedingDay(1)
	if prev.EndYYYYMMDD() != "20250913" || prev.StartYYYYMMDD() != "20250913" {
		t.Fatalf("PrecedingDay(1) = %+v", prev)
	}
}
