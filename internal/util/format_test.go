package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{
			name:     "zero",
			input:    0,
			expected: "0",
		},
		{
			name:     "small number",
			input:    42,
			expected: "42",
		},
		{
			name:     "just below K threshold",
			input:    999,
			expected: "999",
		},
		{
			name:     "at K threshold",
			input:    1000,
			expected: "1.0K",
		},
		{
			name:     "thousands",
			input:    1500,
			expected: "1.5K",
		},
		{
			name:     "just below M threshold",
			input:    999999,
			expected: "1000.0K",
		},
		{
			name:     "at M threshold",
			input:    1000000,
			expected: "1.0M",
		},
		{
			name:     "millions",
			input:    2500000,
			expected: "2.5M",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatNumber(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormatGroupedNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{
			name:     "zero",
			input:    0,
			expected: "0",
		},
		{
			name:     "three digits",
			input:    999,
			expected: "999",
		},
		{
			name:     "four digits",
			input:    1000,
			expected: "1,000",
		},
		{
			name:     "seven digits",
			input:    1234567,
			expected: "1,234,567",
		},
		{
			name:     "negative small",
			input:    -42,
			expected: "-42",
		},
		{
			name:     "negative grouped",
			input:    -1234567,
			expected: "-1,234,567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatGroupedNumber(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{
			name:     "zero duration",
			input:    0,
			expected: "0s",
		},
		{
			name:     "negative clamps to zero",
			input:    -30 * time.Second,
			expected: "0s",
		},
		{
			name:     "seconds only",
			input:    45 * time.Second,
			expected: "45s",
		},
		{
			name:     "sub-second rounds down",
			input:    500 * time.Millisecond,
			expected: "0s",
		},
		{
			name:     "exact minute",
			input:    time.Minute,
			expected: "1m 0s",
		},
		{
			name:     "minutes and seconds",
			input:    3*time.Minute + 20*time.Second,
			expected: "3m 20s",
		},
		{
			name:     "exact hour",
			input:    time.Hour,
			expected: "1h 0m",
		},
		{
			name:     "hours drop seconds",
			input:    time.Hour + 12*time.Minute + 45*time.Second,
			expected: "1h 12m",
		},
		{
			name:     "many hours",
			input:    25*time.Hour + 45*time.Minute,
			expected: "25h 45m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatDuration(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormatWeight(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "zero",
			input:    0.0,
			expected: "0.000",
		},
		{
			name:     "typical weight",
			input:    0.25,
			expected: "0.250",
		},
		{
			name:     "rounds to three places",
			input:    0.12345,
			expected: "0.123",
		},
		{
			name:     "rounds up",
			input:    0.9996,
			expected: "1.000",
		},
		{
			name:     "full strength",
			input:    1.0,
			expected: "1.000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWeight(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
