package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentText(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"plain string", `"hello"`, "hello"},
		{"block array", `[{"type":"text","text":"a"},{"type":"text","text":"b"}]`, "ab"},
		{"mixed blocks", `[{"type":"image_url","image_url":{"url":"u"}},{"type":"text","text":"x"}]`, "x"},
		{"empty", ``, ""},
		{"null", `null`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, contentText(json.RawMessage(tc.content)))
		})
	}
}

func TestExtractImageURL(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			"image_url block wins",
			`[{"type":"text","text":"see https://a.example/t.png"},{"type":"image_url","image_url":{"url":"https://b.example/i.png"}}]`,
			"https://b.example/i.png",
		},
		{
			"url in text block",
			`[{"type":"text","text":"result: https://a.example/t.png done"}]`,
			"https://a.example/t.png",
		},
		{"plain string with url", `"at http://x.example/p.jpg now"`, "http://x.example/p.jpg"},
		{"no url anywhere", `"sorry, cannot draw"`, ""},
		{"empty", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractImageURL(json.RawMessage(tc.content)))
		})
	}
}

func TestRawString(t *testing.T) {
	assert.Equal(t, "bad_request", rawString(json.RawMessage(`"bad_request"`)))
	assert.Equal(t, "502", rawString(json.RawMessage(`502`)))
	assert.Equal(t, "", rawString(nil))
}
