package shopfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "simple paragraph",
			markup: "<p>Rich</p>",
			want:   "Rich",
		},
		{
			name:   "nested tags",
			markup: "<div><p>Dark <strong>roast</strong> beans</p></div>",
			want:   "Dark roast beans",
		},
		{
			name:   "empty input",
			markup: "",
			want:   "",
		},
		{
			name:   "plain text unchanged",
			markup: "No markup here",
			want:   "No markup here",
		},
		{
			name:   "whitespace collapsed",
			markup: "<p>Single   origin\n\tbeans</p>",
			want:   "Single origin beans",
		},
		{
			name:   "multiple blocks joined",
			markup: "<p>First</p><p>Second</p>",
			want:   "First Second",
		},
		{
			name:   "entities decoded",
			markup: "<p>Beans &amp; grounds</p>",
			want:   "Beans & grounds",
		},
		{
			name:   "malformed markup degrades to text",
			markup: "<p>Unclosed <em>emphasis",
			want:   "Unclosed emphasis",
		},
		{
			name:   "tags only yields empty text",
			markup: "<br/><hr/>",
			want:   "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, StripHTML(tt.markup))
		})
	}
}
