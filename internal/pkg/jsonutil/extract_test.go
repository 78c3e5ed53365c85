package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			raw:  `{"decision":"hold","percentage":0}`,
			want: `{"decision":"hold","percentage":0}`,
			ok:   true,
		},
		{
			name: "object inside prose",
			raw:  `Sure, here is my call: {"decision":"buy","percentage":20} based on momentum.`,
			want: `{"decision":"buy","percentage":20}`,
			ok:   true,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"decision\":\"sell\",\"percentage\":30}\n```",
			want: `{"decision":"sell","percentage":30}`,
			ok:   true,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n{\"decision\":\"hold\",\"percentage\":0}\n```",
			want: `{"decision":"hold","percentage":0}`,
			ok:   true,
		},
		{
			name: "braces inside string values",
			raw:  `{"reason":"pattern {head and shoulders} forming","decision":"sell"}`,
			want: `{"reason":"pattern {head and shoulders} forming","decision":"sell"}`,
			ok:   true,
		},
		{
			name: "escaped quote inside string",
			raw:  `{"reason":"the \"golden cross\" held"}`,
			want: `{"reason":"the \"golden cross\" held"}`,
			ok:   true,
		},
		{
			name: "nested objects stay balanced",
			raw:  `prefix {"outer":{"inner":1}} suffix {"second":2}`,
			want: `{"outer":{"inner":1}}`,
			ok:   true,
		},
		{
			name: "no object at all",
			raw:  "I cannot decide right now.",
			ok:   false,
		},
		{
			name: "unbalanced object",
			raw:  `{"decision":"buy"`,
			ok:   false,
		},
		{
			name: "empty input",
			raw:  "   ",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractObject(tc.raw)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
