package textutil

import (
	"io"
	"strings"
	"testing"
)

func TestStripPunctuation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "So", want: "So"},
		{in: "plane.", want: "plane"},
		{in: "well,then", want: "well then"},
		{in: "\"quoted\"", want: "quoted"},
		{in: "?!", want: ""},
		{in: "don't", want: "don't"},
		{in: "a:b;c", want: "a b c"},
	}
	for _, tt := range tests {
		if got := StripPunctuation(tt.in); got != tt.want {
			t.Errorf("StripPunctuation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinLines(t *testing.T) {
	got := JoinLines([]string{" If a photon is directed ", "", "through a plane"})
	if got != "If a photon is directed through a plane" {
		t.Fatalf("JoinLines = %q", got)
	}
}

func TestNewReaderDecodesLatin1(t *testing.T) {
	r, err := NewReader(strings.NewReader("caf\xe9"), "latin1")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "café" {
		t.Fatalf("decoded = %q", data)
	}
}

func TestNewReaderStripsBOMAndNormalizes(t *testing.T) {
	// "e" followed by a combining acute accent composes to U+00E9.
	r, err := NewReader(strings.NewReader("\ufeffcafe\u0301"), "")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "caf\u00e9" {
		t.Fatalf("decoded = %q", data)
	}
}

func TestLookupEncodingRejectsUnknown(t *testing.T) {
	if _, err := LookupEncoding("klingon-8"); err == nil {
		t.Fatal("expected error")
	}
}
