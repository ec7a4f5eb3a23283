package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() = %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		act  func(c *FakeClock)
		want time.Time
	}{
		{
			name: "returns fixed time",
			act:  func(c *FakeClock) {},
			want: start,
		},
		{
			name: "set moves to an arbitrary time",
			act: func(c *FakeClock) {
				c.Set(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
			},
			want: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "advances accumulate",
			act: func(c *FakeClock) {
				c.Advance(time.Hour)
				c.Advance(30 * time.Minute)
			},
			want: start.Add(90 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFakeClock(start)
			tt.act(c)
			if got := c.Now(); !got.Equal(tt.want) {
				t.Errorf("Now() = %v, want %v", got, tt.want)
			}
			// Stable across calls
			if again := c.Now(); !again.Equal(tt.want) {
				t.Errorf("second Now() = %v, want %v", again, tt.want)
			}
		})
	}
}
