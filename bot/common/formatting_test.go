package common

import (
	"testing"

	"wheelhouse/models"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		expected string
	}{
		{"Small", 999, "999"},
		{"Thousands", 1000, "1,000"},
		{"Millions", 1234567, "1,234,567"},
		{"Zero", 0, "0"},
		{"Negative", -1500, "-1,500"},
		{"Negative small", -35, "-35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatBalance(tt.balance)
			if result != tt.expected {
				t.Errorf("FormatBalance(%d) = %s; want %s", tt.balance, result, tt.expected)
			}
		})
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(3500); got != "+3,500" {
		t.Errorf("FormatSigned(3500) = %s", got)
	}
	if got := FormatSigned(-20); got != "-20" {
		t.Errorf("FormatSigned(-20) = %s", got)
	}
	if got := FormatSigned(0); got != "0" {
		t.Errorf("FormatSigned(0) = %s", got)
	}
}

func TestFormatPocket(t *testing.T) {
	tests := []struct {
		pocket   int
		expected string
	}{
		{0, "🟢 0"},
		{1, "🔴 1"},
		{17, "⚫ 17"},
	}

	for _, tt := range tests {
		if got := FormatPocket(models.NewSpinResult(tt.pocket)); got != tt.expected {
			t.Errorf("FormatPocket(%d) = %s; want %s", tt.pocket, got, tt.expected)
		}
	}
}
