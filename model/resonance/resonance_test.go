package resonance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagValidate(t *testing.T) {
	vocab := NewVocabulary()

	type testCase struct {
		name      string
		tag       Tag
		expectErr error
	}

	tests := []testCase{
		{
			name: "valid tag",
			tag:  Tag{Tone: ToneJoy, Symbol: "spiral", MoralCharge: 0.8, Intensity: 0.9},
		},
		{
			name:      "unknown tone",
			tag:       Tag{Tone: "melancholy", Symbol: "spiral", MoralCharge: 0.1, Intensity: 0.1},
			expectErr: ErrUnknownTone,
		},
		{
			name:      "moral charge above bound",
			tag:       Tag{Tone: ToneGrief, Symbol: "spiral", MoralCharge: 1.2, Intensity: 0.1},
			expectErr: ErrOutOfRange,
		},
		{
			name:      "negative intensity",
			tag:       Tag{Tone: ToneWonder, Symbol: "spiral", MoralCharge: 0.0, Intensity: -0.1},
			expectErr: ErrOutOfRange,
		},
		{
			name: "empty symbol is allowed",
			tag:  Tag{Tone: ToneNeutral, MoralCharge: 0.0, Intensity: 0.5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tag.Validate(vocab)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVocabularyExtension(t *testing.T) {
	vocab := NewVocabulary("awe")
	assert.True(t, vocab.Contains("awe"))
	assert.True(t, vocab.Contains(ToneJoy))
	assert.False(t, vocab.Contains("dread"))

	// Empty extensions are ignored.
	assert.False(t, NewVocabulary("").Contains(""))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3.2, -1, 1))
	assert.Equal(t, -1.0, Clamp(-7, -1, 1))
	assert.Equal(t, 0.25, Clamp(0.25, -1, 1))
}
