package upload

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"photo.PNG", nil, "image/png"},
		{"doc.pdf", nil, "application/pdf"},
		{"blob", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), "application/pdf"},
		{"notes", []byte("plain words only\n"), "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectContentType(tt.name, tt.data); got != tt.want {
				t.Fatalf("DetectContentType(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slides.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if f.Name != "slides.pdf" || f.ContentType != "application/pdf" || f.Size() != 8 {
		t.Fatalf("ReadFile = %+v", f)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("ReadFile(missing) returned nil error")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{10 << 20, "10 MB"},
		{500 << 20, "500 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Fatalf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
