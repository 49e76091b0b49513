package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in       any
		expected string
	}{
		{"1200.50", "1200.5"},
		{"¥1,200.50", "1200.5"},
		{"￥3，000", "3000"},
		{"$ 120.00", "120"},
		{"300 CNY", "300"},
		{"usd 45.5", "45.5"},
		{"-50", "-50"},
		{"  42  ", "42"},
		{120.5, "120.5"},
		{int(7), "7"},
		{int64(9), "9"},
		{decimal.NewFromInt(11), "11"},
		{"", "0"},
		{"n/a", "0"},
		{"free", "0"},
		{nil, "0"},
		{true, "0"},
	}
	for _, tc := range cases {
		got := ParseMoney(tc.in)
		want, _ := decimal.NewFromString(tc.expected)
		if !got.Equal(want) {
			t.Fatalf("ParseMoney(%v) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	if got := ParseQuantity("3"); !got.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected 3, got %s", got)
	}
	if got := ParseQuantity("-3"); !got.IsZero() {
		t.Fatalf("negative quantity must clamp to zero, got %s", got)
	}
	if got := ParseQuantity("junk"); !got.IsZero() {
		t.Fatalf("unparseable quantity must be zero, got %s", got)
	}
}
