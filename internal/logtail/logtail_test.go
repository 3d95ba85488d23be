package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aula.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRead_KeepsLastLines(t *testing.T) {
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, fmt.Sprintf(`{"level":"info","message":"line %d"}`, i))
	}
	path := writeLog(t, lines...)

	tests := []struct {
		name     string
		maxLines int
		first    string
		count    int
	}{
		{"partial", 5, "line 6", 5},
		{"exact", 10, "line 1", 10},
		{"more than exists", 20, "line 1", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(path, tt.maxLines)
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if len(got) != tt.count {
				t.Fatalf("Read returned %d entries, want %d", len(got), tt.count)
			}
			if got[0].Message != tt.first {
				t.Fatalf("first entry = %q, want %q", got[0].Message, tt.first)
			}
			if got[len(got)-1].Message != "line 10" {
				t.Fatalf("last entry = %q, want line 10", got[len(got)-1].Message)
			}
		})
	}
}

func TestRead_ZeroAndMissing(t *testing.T) {
	path := writeLog(t, `{"message":"x"}`)
	if got, err := Read(path, 0); err != nil || got != nil {
		t.Fatalf("Read(0) = %v, %v; want nil, nil", got, err)
	}
	got, err := Read(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("Read(missing) = %v, %v; want empty, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	e := Parse(`{"level":"warn","component":"upload","file":"a.png","percent":40,"time":"2026-03-01T10:11:12.5Z","message":"upload stalled"}`)
	if e.Level != "warn" || e.Component != "upload" || e.Message != "upload stalled" {
		t.Fatalf("Parse = %+v", e)
	}
	want := time.Date(2026, 3, 1, 10, 11, 12, 500_000_000, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	if e.Fields["file"] != "a.png" || e.Fields["percent"] != "40" {
		t.Fatalf("Fields = %v", e.Fields)
	}
}

func TestParse_NonJSON(t *testing.T) {
	e := Parse("panic: boom")
	if e.Message != "panic: boom" || e.Level != "" || e.Raw != "panic: boom" {
		t.Fatalf("Parse = %+v", e)
	}
	if e.String() != "panic: boom" {
		t.Fatalf("String = %q", e.String())
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{
		Level:     "info",
		Component: "api",
		Message:   "request complete",
		Fields:    map[string]string{"status": "200", "method": "GET"},
	}
	if got, want := e.String(), "INFO [api] request complete method=GET status=200"; got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
}
