package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"$15000", 1500000, true},
		{"1.234,56", 123456, true},
		{"1,234.56", 123456, true},
		{"1.234.567", 123456700, true},
		{"2500,50", 250050, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"184467440737095516.17", 0, false}, // wraps int64 cents
		{"100000000000000000000", 0, false},
		{"10000000000001", 0, false}, // above MaxAmountCents
		{"10000000000000", 1_000_000_000_000_000, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected ErrInvalidAmount, got %d (err=%v)", tc.in, got.Cents, err)
			}
		}
	}
}

func TestCoerceMoney(t *testing.T) {
	cases := []struct {
		in  any
		out int64
		ok  bool
	}{
		{15000.0, 1500000, true},
		{2500.5, 250050, true},
		{int64(3), 300, true},
		{7, 700, true},
		{json.Number("12.5"), 1250, true},
		{"10.000,30", 1000030, true},
		{"0", 0, true},
		{"-4", -400, true},
		{"n/a", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{true, 0, false},
		{"184467440737095516.17", 0, false},
		{1e30, 0, false},
		{int64(math.MaxInt64), 0, false},
	}
	for _, tc := range cases {
		got, ok := CoerceMoney(tc.in)
		if ok != tc.ok || (ok && got.Cents != tc.out) {
			t.Fatalf("%#v expected (%d,%v), got (%d,%v)", tc.in, tc.out, tc.ok, got.Cents, ok)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 250050}).String(); got != "2500.50" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: 5}).Float(); got != 0.05 {
		t.Fatalf("got %v", got)
	}
}

func TestMoneyAddSaturates(t *testing.T) {
	big := Money{Cents: math.MaxInt64 - 10}
	if got := big.Add(Money{Cents: 100}); got.Cents != math.MaxInt64 {
		t.Fatalf("expected saturation at MaxInt64, got %d", got.Cents)
	}
	low := Money{Cents: math.MinInt64 + 10}
	if got := low.Add(Money{Cents: -100}); got.Cents != math.MinInt64 {
		t.Fatalf("expected saturation at MinInt64, got %d", got.Cents)
	}
	if got := (Money{Cents: 150}).Add(Money{Cents: -50}); got.Cents != 100 {
		t.Fatalf("got %d", got.Cents)
	}
}

func TestMoneyValidateUpperBound(t *testing.T) {
	if err := (Money{Cents: MaxAmountCents}).Validate(); err != nil {
		t.Fatalf("max amount should be valid, got %v", err)
	}
	if err := (Money{Cents: MaxAmountCents + 1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
