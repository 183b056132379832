package utils

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Modelo Bloco A.ifc", "Modelo_Bloco_A.ifc"},
		{"edificação-01.ifc", "edifica__o-01.ifc"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"plain-name_v2.IFC", "plain-name_v2.IFC"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeFileBuffer(t *testing.T) {
	payload := []byte("ISO-10303-21;")
	std := base64.StdEncoding.EncodeToString(payload)

	cases := []string{
		std,
		"data:application/octet-stream;base64," + std,
		strings.TrimRight(std, "="),
		"  " + std + "\n",
	}
	for _, c := range cases {
		got, err := DecodeFileBuffer(c)
		if err != nil {
			t.Fatalf("DecodeFileBuffer(%q) failed: %v", c, err)
		}
		if string(got) != string(payload) {
			t.Errorf("DecodeFileBuffer(%q) = %q", c, got)
		}
	}

	if _, err := DecodeFileBuffer(""); err != ErrEmptyPayload {
		t.Errorf("empty payload: got %v", err)
	}
	if _, err := DecodeFileBuffer("%%%"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestListenURLs(t *testing.T) {
	urls := ListenURLs("3000")
	if len(urls) == 0 || urls[0] != "http://localhost:3000" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}
