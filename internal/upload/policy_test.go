package upload

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tecnojuy/aula/internal/api"
)

func sized(name, ctype string, n int) File {
	return File{Name: name, ContentType: ctype, Data: bytes.Repeat([]byte{'x'}, n)}
}

func TestGeneralPolicy(t *testing.T) {
	p := GeneralPolicy(1024)
	tests := []struct {
		name    string
		file    File
		wantErr string
	}{
		{"png", sized("a.png", "image/png", 10), ""},
		{"pdf", sized("a.pdf", "application/pdf", 10), ""},
		{"audio", sized("a.ogg", "audio/ogg", 10), ""},
		{"bmp rejected", sized("a.bmp", "image/bmp", 10), "Invalid file type image/bmp. Expected FILE."},
		{"too large", sized("a.png", "image/png", 2048), "File exceeds the maximum for FILE (1.0 KB)."},
		{"empty", sized("a.png", "image/png", 0), "file is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Check(tt.file)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Check returned error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("Check error = %v, want %q", err, tt.wantErr)
			}
			if !errors.Is(err, api.ErrValidation) {
				t.Fatalf("Check error kind = %v, want validation", err)
			}
		})
	}
}

func TestLessonPolicy(t *testing.T) {
	tests := []struct {
		lesson  string
		file    File
		wantErr string
	}{
		{api.ContentVideo, sized("v.mp4", "video/mp4", 10), ""},
		{api.ContentVideo, sized("v.mov", "VIDEO/QUICKTIME", 10), ""},
		{api.ContentVideo, sized("a.pdf", "application/pdf", 10), "Invalid file type application/pdf. Expected VIDEO."},
		{api.ContentPDF, sized("a.pdf", "application/pdf", 10), ""},
		{api.ContentPDF, sized("a.png", "image/png", 10), "Invalid file type image/png. Expected PDF."},
		{api.ContentImage, sized("a.svg", "image/svg+xml", 10), ""},
		{api.ContentText, sized("a.png", "image/png", 10), "This lesson does not accept files"},
		{api.ContentQuiz, sized("a.png", "image/png", 10), "This lesson does not accept files"},
	}
	for _, tt := range tests {
		t.Run(tt.lesson+"/"+tt.file.ContentType, func(t *testing.T) {
			p, err := LessonPolicy(tt.lesson)
			if err != nil {
				t.Fatalf("LessonPolicy returned error: %v", err)
			}
			err = p.Check(tt.file)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Check returned error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("Check error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLessonPolicy_SizeCaps(t *testing.T) {
	p, err := LessonPolicy(api.ContentPDF)
	if err != nil {
		t.Fatalf("LessonPolicy returned error: %v", err)
	}
	if p.MaxSize != 50*mib {
		t.Fatalf("pdf MaxSize = %d, want %d", p.MaxSize, 50*mib)
	}
	big := File{Name: "a.pdf", ContentType: "application/pdf", Data: make([]byte, 50*mib+1)}
	if err := p.Check(big); err == nil || err.Error() != "File exceeds the maximum for PDF (50 MB)." {
		t.Fatalf("Check error = %v", err)
	}
}

func TestLessonPolicy_UnknownType(t *testing.T) {
	if _, err := LessonPolicy("podcast"); !errors.Is(err, api.ErrValidation) {
		t.Fatalf("LessonPolicy(podcast) error = %v, want validation error", err)
	}
}
