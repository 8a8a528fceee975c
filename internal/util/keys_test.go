package util

import "testing"

func TestNamespaced(t *testing.T) {
	if got := Namespaced("", "k"); got != "k" {
		t.Fatalf("empty ns: got %q", got)
	}
	if got := Namespaced("ocr", "doc:1"); got != "ocr:doc:1" {
		t.Fatalf("got %q", got)
	}
}

func TestEscapeGlob(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"a*b", `a\*b`},
		{"q?", `q\?`},
		{"[x]", `\[x\]`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := EscapeGlob(tt.in); got != tt.want {
			t.Errorf("EscapeGlob(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNamespacedPattern(t *testing.T) {
	if got := NamespacedPattern("", "user:*"); got != "user:*" {
		t.Fatalf("got %q", got)
	}
	if got := NamespacedPattern("tenant[1]", "user:*"); got != `tenant\[1\]:user:*` {
		t.Fatalf("got %q", got)
	}
}
