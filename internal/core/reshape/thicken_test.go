// internal/core/reshape/thicken_test.go
package reshape

import (
	"strings"
	"testing"
	"time"

	"timegrid/internal/core/frame"
	"timegrid/internal/core/interval"
)

func dayFrame(t *testing.T, days ...time.Time) *frame.Frame {
	t.Helper()
	ts := frame.NewTimeColumn("date", time.UTC)
	val := frame.NewFloatColumn("amount")
	for i, d := range days {
		ts.AppendTime(d)
		val.AppendFloat(float64(i + 1))
	}
	f, err := frame.New(ts, val)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	return f
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestThicken_ToSundayWeeks(t *testing.T) {
	f := dayFrame(t,
		utcDate(2016, 8, 12),
		utcDate(2016, 8, 13),
		utcDate(2016, 8, 26),
		utcDate(2016, 8, 29),
	)
	out, err := Thicken(f, ThickenOptions{
		Interval: interval.Interval{Unit: interval.Week, Count: 1},
	})
	if err != nil {
		t.Fatalf("Thicken: %v", err)
	}
	if out.NRows() != f.NRows() {
		t.Fatalf("row count changed: %d", out.NRows())
	}

	col, ok := out.Col("date_week")
	if !ok {
		t.Fatalf("added column missing; have %v", out.Names())
	}
	want := []time.Time{
		utcDate(2016, 8, 7),
		utcDate(2016, 8, 7),
		utcDate(2016, 8, 21),
		utcDate(2016, 8, 28),
	}
	for i, w := range want {
		got, valid := col.Time(i)
		if !valid || !got.Equal(w) {
			t.Fatalf("row %d = %v, want %v", i, got, w)
		}
	}
}

func TestThicken_InputUntouched(t *testing.T) {
	f := dayFrame(t, utcDate(2016, 8, 12), utcDate(2016, 8, 13))
	if _, err := Thicken(f, ThickenOptions{
		Interval: interval.Interval{Unit: interval.Month, Count: 1},
	}); err != nil {
		t.Fatalf("Thicken: %v", err)
	}
	if f.NCols() != 2 {
		t.Fatalf("input frame gained a column")
	}
}

func TestThicken_GroupingIsIdentity(t *testing.T) {
	ts := frame.NewTimeColumn("date", time.UTC)
	grp := frame.NewStringColumn("shop")
	for i, d := range []time.Time{
		utcDate(2016, 8, 12), utcDate(2016, 8, 13), utcDate(2016, 8, 26),
	} {
		ts.AppendTime(d)
		if i%2 == 0 {
			grp.AppendString("A")
		} else {
			grp.AppendString("B")
		}
	}
	f, err := frame.New(ts, grp)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}

	plain, err := Thicken(f, ThickenOptions{
		Interval: interval.Interval{Unit: interval.Week, Count: 1},
	})
	if err != nil {
		t.Fatalf("Thicken: %v", err)
	}
	grouped, err := Thicken(f, ThickenOptions{
		Interval: interval.Interval{Unit: interval.Week, Count: 1},
		GroupBy:  "shop",
	})
	if err != nil {
		t.Fatalf("Thicken grouped: %v", err)
	}

	a, _ := plain.Col("date_week")
	b, _ := grouped.Col("date_week")
	for i := 0; i < plain.NRows(); i++ {
		x, _ := a.Time(i)
		y, _ := b.Time(i)
		if !x.Equal(y) {
			t.Fatalf("grouping changed thickening at row %d: %v vs %v", i, x, y)
		}
	}
}

func TestThicken_RoundTripFixedPoint(t *testing.T) {
	f := dayFrame(t, utcDate(2016, 8, 12), utcDate(2016, 8, 13), utcDate(2016, 8, 26))
	once, err := Thicken(f, ThickenOptions{
		Interval:  interval.Interval{Unit: interval.Week, Count: 1},
		NewColumn: "wk",
	})
	if err != nil {
		t.Fatalf("Thicken: %v", err)
	}
	again, err := Thicken(once, ThickenOptions{
		Column:    "wk",
		Interval:  interval.Interval{Unit: interval.Week, Count: 1},
		NewColumn: "wk2",
		Force:     true,
	})
	if err != nil {
		t.Fatalf("Thicken again: %v", err)
	}
	a, _ := again.Col("wk")
	b, _ := again.Col("wk2")
	for i := 0; i < again.NRows(); i++ {
		x, _ := a.Time(i)
		y, _ := b.Time(i)
		if !x.Equal(y) {
			t.Fatalf("snapping a snapped value moved it: %v -> %v", x, y)
		}
	}
}

func TestThicken_RefusesFinerTarget(t *testing.T) {
	f := dayFrame(t, utcDate(2016, 8, 12), utcDate(2016, 8, 13))
	_, err := Thicken(f, ThickenOptions{
		Interval: interval.Interval{Unit: interval.Hour, Count: 1},
	})
	if err == nil {
		t.Fatalf("expected finer-target error")
	}
	if !strings.Contains(err.Error(), "not coarser") {
		t.Fatalf("error should name the rule: %v", err)
	}

	// Force overrides the check
	if _, err := Thicken(f, ThickenOptions{
		Interval: interval.Interval{Unit: interval.Hour, Count: 1},
		Force:    true,
	}); err != nil {
		t.Fatalf("forced thicken: %v", err)
	}
}

func TestThicken_SnapUp(t *testing.T) {
	f := dayFrame(t, utcDate(2016, 8, 12))
	out, err := Thicken(f, ThickenOptions{
		Interval:  interval.Interval{Unit: interval.Month, Count: 1},
		Direction: Up,
	})
	if err != nil {
		t.Fatalf("Thicken: %v", err)
	}
	col, _ := out.Col("date_month")
	got, _ := col.Time(0)
	if !got.Equal(utcDate(2016, 9, 1)) {
		t.Fatalf("snap up = %v, want 2016-09-01", got)
	}
}

func TestThicken_MissingDatetimeCellStaysMissing(t *testing.T) {
	ts := frame.NewTimeColumn("date", time.UTC)
	ts.AppendTime(utcDate(2016, 8, 12))
	ts.AppendMissing()
	ts.AppendTime(utcDate(2016, 8, 13))
	f, err := frame.New(ts)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	out, err := Thicken(f, ThickenOptions{
		Interval: interval.Interval{Unit: interval.Week, Count: 1},
	})
	if err != nil {
		t.Fatalf("Thicken: %v", err)
	}
	col, _ := out.Col("date_week")
	if _, ok := col.Time(1); ok {
		t.Fatalf("absent input cell should thicken to an absent cell")
	}
}
