package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "whole amount", in: "1500", want: 150000},
		{name: "two decimals", in: "1500.50", want: 150050},
		{name: "one decimal", in: "7.5", want: 750},
		{name: "comma separator", in: "12,75", want: 1275},
		{name: "leading dot", in: ".99", want: 99},
		{name: "rounds third decimal up", in: "1.005", want: 101},
		{name: "rounds third decimal down", in: "1.004", want: 100},
		{name: "surrounding spaces", in: " 42 ", want: 4200},
		{name: "empty", in: "", wantErr: true},
		{name: "zero", in: "0", wantErr: true},
		{name: "zero with decimals", in: "0.00", wantErr: true},
		{name: "negative", in: "-5", wantErr: true},
		{name: "explicit plus", in: "+5", wantErr: true},
		{name: "letters", in: "12a", wantErr: true},
		{name: "two separators", in: "1.2.3", wantErr: true},
		{name: "overflow", in: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseDecimalToCents(%q) error = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{150000, "1,500.00"},
		{123456789, "1,234,567.89"},
		{-4200, "-42.00"},
		{100000000, "1,000,000.00"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 500000}
	b := Money{Cents: 200000}

	if got := a.Add(b); got.Cents != 700000 {
		t.Errorf("Add = %d, want 700000", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 300000 {
		t.Errorf("Sub = %d, want 300000", got.Cents)
	}
	if got := b.Sub(a); !got.IsNegative() {
		t.Errorf("Sub below zero: IsNegative() = false, want true")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Errorf("positive amount: unexpected error %v", err)
	}
	if err := (Money{}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: error = %v, want ErrInvalidAmount", err)
	}
	if err := (Money{Cents: -100}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: error = %v, want ErrInvalidAmount", err)
	}
}
