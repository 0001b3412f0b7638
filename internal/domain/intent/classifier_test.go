package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordWantsImage(t *testing.T) {
	k := NewKeyword()

	cases := []struct {
		message string
		want    bool
	}{
		{"please generate a sunset", true},
		{"CREATE something bold", true},
		{"what's in this picture?", true},
		{"make it pop", true},
		{"design a logo for me", true},
		{"remake this poster", true}, // substring match on "make"
		{"I love making things", false},
		{"tell me a story", false},
		{"what is the weather like", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, k.WantsImage(tc.message), "message: %q", tc.message)
	}
}

func TestKeywordIsNegationBlind(t *testing.T) {
	k := NewKeyword()
	assert.True(t, k.WantsImage("please don't create an image"))
}

func TestMentionsImage(t *testing.T) {
	assert.True(t, MentionsImage("draw an IMAGE of a cat"))
	assert.True(t, MentionsImage("a picture of home"))
	assert.False(t, MentionsImage("make me a cat"))
}
