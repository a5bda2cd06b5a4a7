package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestParseFloatDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  float64
		want float64
	}{
		{"189.9800", 0, 189.98},
		{" 12 ", 0, 12},
		{"", 7, 7},
		{"abc", 3, 3},
		{"NaN", 1, 1},
	}
	for _, c := range cases {
		if got := ParseFloatDefault(c.in, c.def); got != c.want {
			t.Fatalf("ParseFloatDefault(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParsePercent(t *testing.T) {
	if got := ParsePercent("-1.2345%"); got != -1.2345 {
		t.Fatalf("unexpected percent %v", got)
	}
	if got := ParsePercent("0%"); got != 0 {
		t.Fatalf("unexpected percent %v", got)
	}
	if got := ParsePercent("garbage"); got != 0 {
		t.Fatalf("expected zero for garbage, got %v", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 0); got != 42 {
		t.Fatalf("unexpected int %v", got)
	}
	if got := ParseIntDefault("4.2", 9); got != 9 {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestRaceTimeoutReturnsResult(t *testing.T) {
	got, err := RaceTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestRaceTimeoutTimerWins(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	_, err := RaceTimeout(context.Background(), 20*time.Millisecond, func(context.Context) (int, error) {
		<-release
		return 1, nil
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestRaceTimeoutPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := RaceTimeout(context.Background(), time.Second, func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestRaceTimeoutDisabled(t *testing.T) {
	got, err := RaceTimeout(context.Background(), 0, func(context.Context) (string, error) {
		return "direct", nil
	})
	if err != nil || got != "direct" {
		t.Fatalf("got %v, %v", got, err)
	}
}
