package writing

import (
	"strings"
	"testing"
)

func TestStripBoilerplate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "time and word instructions",
			in: "You should spend about 40 minutes on this task.\n\n" +
				"Some people believe cities are too crowded.\n" +
				"Discuss both views.\n\n" +
				"Write at least 250 words.",
			want: "Some people believe cities are too crowded.\nDiscuss both views.",
		},
		{
			name: "headings and labels",
			in:   "## IELTS Writing Task 2\nTask 2:\n**Question:**\nTechnology has changed how we work.",
			want: "Technology has changed how we work.",
		},
		{
			name: "inline bold kept as text",
			in:   "Many **young people** leave rural areas.",
			want: "Many young people leave rural areas.",
		},
		{
			name: "word range and meta lines",
			in:   "Write about the following topic:\nAdvertising targets children.\nWord count: 150-200 words\nTime: 30 minutes",
			want: "Advertising targets children.",
		},
		{
			name: "letter bullets survive",
			in:   "You recently moved house.\nIn your letter:\n- say where you live now\n- describe the new area\n- invite your friend",
			want: "You recently moved house.\nIn your letter:\n- say where you live now\n- describe the new area\n- invite your friend",
		},
		{
			name: "empty",
			in:   "\n\n  \n",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripBoilerplate(tt.in); got != tt.want {
				t.Errorf("StripBoilerplate() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestStripBoilerplateIdempotent(t *testing.T) {
	inputs := []string{
		"## Task 1\n**Bold line**\nThe chart shows sales.\n\nSummarise the information.\nWrite at least 150 words.",
		"  leading spaces  \n\n\ttabs\t\n",
		"****\n**Task 2**\nReal question?",
		"IELTS Writing Task 2 (Academic):\nSome say X. Others say Y.",
	}
	for _, in := range inputs {
		once := StripBoilerplate(in)
		twice := StripBoilerplate(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce  %q\ntwice %q", in, once, twice)
		}
		if strings.Contains(once, "**") {
			t.Errorf("bold markers left in %q", once)
		}
	}
}
