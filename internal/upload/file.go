package upload

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is an upload payload held in memory so a retry can resend it.
type File struct {
	Name        string `validate:"required"`
	ContentType string `validate:"required"`
	Data        []byte
}

// Size is the payload length in bytes.
func (f File) Size() int64 {
	return int64(len(f.Data))
}

// ReadFile loads path into memory. The content type comes from the file
// extension, or from sniffing the bytes when the extension is unknown.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read upload file: %w", err)
	}
	return File{
		Name:        filepath.Base(path),
		ContentType: DetectContentType(filepath.Base(path), data),
		Data:        data,
	}, nil
}

// DetectContentType returns the bare media type (no parameters) for name.
func DetectContentType(name string, data []byte) string {
	ctype := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ctype == "" {
		ctype = mimetype.Detect(data).String()
	}
	if media, _, err := mime.ParseMediaType(ctype); err == nil {
		return media
	}
	return ctype
}

// FormatSize renders a byte count the way the upload form shows it.
func FormatSize(n int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if size < 10 && i > 0 {
		return fmt.Sprintf("%.1f %s", size, units[i])
	}
	return fmt.Sprintf("%.0f %s", size, units[i])
}
