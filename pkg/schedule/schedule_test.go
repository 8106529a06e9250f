package schedule

import (
	"testing"
	"time"
)

func TestMatchCron(t *testing.T) {
	cases := []struct {
		expr string
		t    time.Time
		want bool
	}{
		{"* * * * *", time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC), true},
		{"0 * * * *", time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), true},
		{"0 * * * *", time.Date(2025, 3, 2, 10, 1, 0, 0, time.UTC), false},
		{"30 4 * * *", time.Date(2025, 3, 2, 4, 30, 0, 0, time.UTC), true},
		{"30 4 * * *", time.Date(2025, 3, 2, 5, 30, 0, 0, time.UTC), false},
		{"*/15 * * * *", time.Date(2025, 3, 2, 9, 45, 0, 0, time.UTC), true},
		{"*/15 * * * *", time.Date(2025, 3, 2, 9, 50, 0, 0, time.UTC), false},
		{"0 0 1 * *", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"0 9-17 * * *", time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC), true},
		{"0 9-17 * * *", time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC), false},
		{"0 0 * * 0", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), true}, // a Sunday
		{"bad expr", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), false},
	}

	for _, c := range cases {
		if got := matchCron(c.expr, c.t); got != c.want {
			t.Errorf("matchCron(%q, %s) = %v, want %v", c.expr, c.t, got, c.want)
		}
	}
}

func TestCronFiresOncePerMatchingMinute(t *testing.T) {
	e := &entry{cronExpr: "* * * * *", task: func() {}}

	now := time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC)
	if !isDue(e, now) {
		t.Fatal("first tick in a matching minute should be due")
	}
	e.lastRun = now

	if isDue(e, now.Add(time.Second)) {
		t.Fatal("second tick in the same minute must not fire again")
	}
	if !isDue(e, now.Add(time.Minute)) {
		t.Fatal("next minute should be due again")
	}
}

func TestIntervalDue(t *testing.T) {
	e := &entry{interval: time.Hour, task: func() {}}
	now := time.Now()

	if !isDue(e, now) {
		t.Fatal("never-run interval entry should be due")
	}
	e.lastRun = now

	if isDue(e, now.Add(30*time.Minute)) {
		t.Fatal("not due before the interval elapses")
	}
	if !isDue(e, now.Add(61*time.Minute)) {
		t.Fatal("due after the interval elapses")
	}
}
