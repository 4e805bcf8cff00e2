package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstObject(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "leading commentary", in: "Sure! Here you go:\n{\"body\":\"suv\"}\nHope that helps", want: `{"body":"suv"}`, wantOK: true},
		{name: "code fence", in: "```json\n{\"a\":{\"b\":2}}\n```", want: `{"a":{"b":2}}`, wantOK: true},
		{name: "braces inside strings", in: `{"note":"use } and { freely","x":1} trailing {"y":2}`, want: `{"note":"use } and { freely","x":1}`, wantOK: true},
		{name: "escaped quote", in: `{"q":"say \"hi\" }"}`, want: `{"q":"say \"hi\" }"}`, wantOK: true},
		{name: "first of several", in: `{"a":1}{"b":2}`, want: `{"a":1}`, wantOK: true},
		{name: "stray closing brace first", in: `} oops {"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "quote in commentary", in: `The customer said "hi". {"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "unbalanced", in: `{"a":{"b":1}`, wantOK: false},
		{name: "no object", in: "I could not find anything", wantOK: false},
		{name: "empty", in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstObject(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
