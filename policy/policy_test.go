package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		expected Mode
		valid    bool
	}

	tests := []testCase{
		{name: "manual", input: "manual", expected: ModeManual, valid: true},
		{name: "case insensitive", input: "ALWAYS_YES", expected: ModeAlwaysYes, valid: true},
		{name: "surrounding spaces", input: " random ", expected: ModeRandom, valid: true},
		{name: "unknown", input: "maybe", valid: false},
		{name: "empty", input: "", valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mode, err := Parse(tc.input)
			if !tc.valid {
				assert.ErrorIs(t, err, ErrInvalidMode)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, mode)
		})
	}
}

func TestModeClasses(t *testing.T) {
	assert.True(t, ModeAlwaysYes.Auto())
	assert.True(t, ModeAlwaysNo.Auto())
	assert.True(t, ModeRandom.Auto())
	assert.False(t, ModeManual.Auto())

	assert.True(t, ModeVoice.NeedsDecider())
	assert.True(t, ModeCustom.NeedsDecider())
	assert.False(t, ModeManual.NeedsDecider())
}
