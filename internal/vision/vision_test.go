package vision

import "testing"

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"plain text", "Hello World", "Hello World"},
		{"surrounding whitespace", "  Start here  \n", "Start here"},
		{"code fence", "```\nx + y\n```", "x + y"},
		{"latex fence", "```latex\n\\frac{a}{b}\n```", "\\frac{a}{b}"},
		{"text fence", "```text\nlabel\n```", "label"},
		{"quoted", "\"Submit\"", "Submit"},
		{"none sentinel", "NONE", ""},
		{"none lowercase", "none", ""},
		{"empty", "", ""},
		{"multiline preserved", "line one\nline two", "line one\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanReply(tt.reply); got != tt.want {
				t.Errorf("cleanReply(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	if _, err := NewClient("://bad-url", "llava"); err == nil {
		t.Error("expected error for malformed URL")
	}
}
