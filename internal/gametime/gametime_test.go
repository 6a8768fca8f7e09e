package gametime

import "testing"

func TestToTotalHoursBijection(t *testing.T) {
	gt := GameTime{Year: 3, Month: 5, Day: 10, Hour: 7}
	h := gt.ToTotalHours()
	back := FromTotalHours(h)
	if !gt.Equal(back) {
		t.Errorf("round-trip mismatch: %+v != %+v", gt, back)
	}
}

func TestAddHoursRollsOverMonth(t *testing.T) {
	gt := GameTime{Year: 0, Month: 0, Day: 29, Hour: 23}
	next := gt.AddHours(1)
	want := GameTime{Year: 0, Month: 1, Day: 0, Hour: 0}
	if !next.Equal(want) {
		t.Errorf("expected %+v, got %+v", want, next)
	}
}

func TestAddHoursRollsOverYear(t *testing.T) {
	gt := GameTime{Year: 0, Month: 11, Day: 29, Hour: 23}
	next := gt.AddHours(1)
	want := GameTime{Year: 1, Month: 0, Day: 0, Hour: 0}
	if !next.Equal(want) {
		t.Errorf("expected %+v, got %+v", want, next)
	}
}

func TestWeekRolloverEveryWeek(t *testing.T) {
	start := GameTime{}.ToTotalHours()
	if !IsWeekRollover(start) {
		t.Error("hour 0 should be a week rollover")
	}
	oneWeekLater := start + HoursPerWeek
	if !IsWeekRollover(oneWeekLater) {
		t.Error("hour HoursPerWeek should be a week rollover")
	}
}

func TestNoLeapYears(t *testing.T) {
	if DaysPerYear != 360 {
		t.Errorf("expected 360 days/year, got %d", DaysPerYear)
	}
}
