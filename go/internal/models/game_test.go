package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTradeTimeLimit(t *testing.T) {
	tests := []struct {
		in   string
		want TradeTimeLimit
	}{
		{"unlimited", UnlimitedTradeTime},
		{"600000", LimitedTime(10 * time.Minute)},
		{"1", LimitedTime(time.Millisecond)},
		{"0.5", LimitedTime(time.Millisecond)},
		{"1500.2", LimitedTime(1501 * time.Millisecond)},
		{"1e-300", LimitedTime(time.Millisecond)},
		{"9223372036854", MaxTradeTimeLimit},
	}
	for _, tt := range tests {
		got, err := ParseTradeTimeLimit(tt.in)
		if err != nil {
			t.Errorf("ParseTradeTimeLimit(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTradeTimeLimit(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseTradeTimeLimitRejects(t *testing.T) {
	for _, in := range []string{
		"", "soon", "0", "-0", "-5",
		"NaN", "nan", "Inf", "+Inf", "-Inf", "infinity",
		"1e300", "9223372036855",
	} {
		if got, err := ParseTradeTimeLimit(in); err == nil {
			t.Errorf("ParseTradeTimeLimit(%q) = %s, want an error", in, got)
		}
	}
}

func TestLimitedTimeWholeMilliseconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "unlimited"},
		{-time.Second, "unlimited"},
		{time.Nanosecond, "1"},
		{500 * time.Microsecond, "1"},
		{time.Millisecond, "1"},
		{1500*time.Millisecond + time.Nanosecond, "1501"},
		{time.Duration(1<<63 - 1), "9223372036854"},
	}
	for _, tt := range tests {
		limit := LimitedTime(tt.d)
		if got := limit.String(); got != tt.want {
			t.Errorf("LimitedTime(%v).String() = %q, want %q", tt.d, got, tt.want)
		}
		if limit.Unlimited() != (tt.d <= 0) {
			t.Errorf("LimitedTime(%v).Unlimited() = %v", tt.d, limit.Unlimited())
		}
	}
}

func TestTradeTimeLimitStringRoundTrip(t *testing.T) {
	for _, limit := range []TradeTimeLimit{
		UnlimitedTradeTime,
		DefaultTradeTimeLimit,
		LimitedTime(time.Nanosecond),
		LimitedTime(90*time.Second + 250*time.Microsecond),
		MaxTradeTimeLimit,
	} {
		got, err := ParseTradeTimeLimit(limit.String())
		if err != nil {
			t.Errorf("parse %q: %v", limit.String(), err)
			continue
		}
		if got != limit {
			t.Errorf("round trip of %q = %d, want %d", limit.String(), got, limit)
		}
	}
}

func TestTradeTimeLimitJSON(t *testing.T) {
	tests := []struct {
		in   string
		want TradeTimeLimit
		out  string
	}{
		{`"unlimited"`, UnlimitedTradeTime, `"unlimited"`},
		{`60000`, LimitedTime(time.Minute), `60000`},
		{`"60000"`, LimitedTime(time.Minute), `60000`},
		{`0.5`, LimitedTime(time.Millisecond), `1`},
	}
	for _, tt := range tests {
		var limit TradeTimeLimit
		if err := json.Unmarshal([]byte(tt.in), &limit); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if limit != tt.want {
			t.Errorf("unmarshal %s = %d, want %d", tt.in, limit, tt.want)
		}
		data, err := json.Marshal(limit)
		if err != nil {
			t.Errorf("marshal %s: %v", tt.in, err)
			continue
		}
		if string(data) != tt.out {
			t.Errorf("marshal %s = %s, want %s", tt.in, data, tt.out)
		}
	}

	for _, in := range []string{`"NaN"`, `"Inf"`, `1e300`, `0`, `-1`, `true`} {
		var limit TradeTimeLimit
		if err := json.Unmarshal([]byte(in), &limit); err == nil {
			t.Errorf("unmarshal %s = %d, want an error", in, limit)
		}
	}
}
