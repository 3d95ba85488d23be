package config

import (
	"strings"
	"testing"
)

func TestEndpoints_AllRelative(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Endpoints() {
		if !strings.HasPrefix(e.Pattern, "/") {
			t.Fatalf("endpoint %s pattern %q does not start with /", e.Key, e.Pattern)
		}
		if strings.Contains(e.Pattern, "://") {
			t.Fatalf("endpoint %s pattern %q is absolute", e.Key, e.Pattern)
		}
		if e.Method == "" {
			t.Fatalf("endpoint %s has no method", e.Key)
		}
		if seen[e.Key] {
			t.Fatalf("duplicate endpoint key %s", e.Key)
		}
		seen[e.Key] = true
	}
}

func TestEndpoints_Sorted(t *testing.T) {
	all := Endpoints()
	for i := 1; i < len(all); i++ {
		if all[i-1].Key > all[i].Key {
			t.Fatalf("Endpoints not sorted: %s before %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestEndpointPath(t *testing.T) {
	tests := []struct {
		name   string
		ep     Endpoint
		params []any
		want   string
	}{
		{"fixed", AuthMe, nil, "/auth/me"},
		{"int id", PostsDetail, []any{42}, "/posts/42"},
		{"int64 id", LessonsUpdate, []any{int64(7)}, "/courses/admin/lessons/7"},
		{"object key keeps folders", StorageDeleteFile, []any{"courses/intro video.mp4"}, "/storage/file/courses/intro%20video.mp4"},
		{"slug", BlogPostBySlug, []any{"hola-mundo"}, "/blog/posts/hola-mundo"},
		{"nested", AdminUserCourses, []any{3}, "/courses/admin/user/3/courses"},
		{"missing param", PostsDetail, nil, "/posts/"},
		{"extra params", AuthMe, []any{1, 2}, "/auth/me"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ep.Path(tt.params...); got != tt.want {
				t.Fatalf("Path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("auth.refresh")
	if !ok {
		t.Fatalf("Lookup(auth.refresh) not found")
	}
	if e.Method != "POST" || e.Pattern != "/auth/refresh" {
		t.Fatalf("Lookup(auth.refresh) = %+v", e)
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatalf("Lookup(nope) found an endpoint")
	}
}
