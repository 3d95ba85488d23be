package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveChapter(t *testing.T) {
	chapters := []Chapter{{ID: 10}, {ID: 20}, {ID: 30}}

	tests := []struct {
		name  string
		id    int
		delta int
		want  []int
		moved bool
	}{
		{"down", 10, 1, []int{20, 10, 30}, true},
		{"up", 30, -1, []int{10, 30, 20}, true},
		{"past top", 10, -1, []int{10, 20, 30}, false},
		{"past bottom", 30, 1, []int{10, 20, 30}, false},
		{"unknown", 99, 1, []int{10, 20, 30}, false},
		{"two steps", 10, 2, []int{20, 30, 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, moved := MoveChapter(chapters, tt.id, tt.delta)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.moved, moved)
		})
	}
	assert.Equal(t, 10, chapters[0].ID, "input must not be modified")
}

func TestChapterOperations(t *testing.T) {
	var reorderBody struct {
		ChapterIDs []int `json:"chapter_ids"`
	}
	var seen []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/courses/admin/5/chapters/reorder":
			_ = json.NewDecoder(r.Body).Decode(&reorderBody)
		case "/courses/admin/chapters/8":
			if r.Method == http.MethodPut {
				_, _ = io.WriteString(w, `{"id":8,"title":"Renamed","course_id":5}`)
			}
		}
	}))
	ctx := context.Background()

	title := "Renamed"
	ch, err := client.UpdateChapter(ctx, 8, ChapterUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ch.Title)

	require.NoError(t, client.DeleteChapter(ctx, 8))
	require.NoError(t, client.ReorderChapters(ctx, 5, []int{3, 1, 2}))
	assert.Equal(t, []int{3, 1, 2}, reorderBody.ChapterIDs)

	err = client.ReorderChapters(ctx, 5, nil)
	assert.True(t, errors.Is(err, ErrValidation))

	assert.Equal(t, []string{
		"PUT /courses/admin/chapters/8",
		"DELETE /courses/admin/chapters/8",
		"PUT /courses/admin/5/chapters/reorder",
	}, seen)
}

func TestLessonUpdateAttachUpload(t *testing.T) {
	res := UploadResult{PublicURL: "https://cdn/x.mp4", ObjectKey: "courses/x.mp4", ContentType: "video/mp4", Size: 42}

	var video LessonUpdate
	video.AttachUpload(ContentVideo, res)
	require.NotNil(t, video.VideoURL)
	assert.Equal(t, "https://cdn/x.mp4", *video.VideoURL)
	assert.Equal(t, "courses/x.mp4", *video.VideoObjectKey)
	assert.Equal(t, int64(42), *video.FileSizeBytes)

	var pdf LessonUpdate
	pdf.AttachUpload(ContentPDF, res)
	assert.Nil(t, pdf.VideoURL)
	assert.Equal(t, "courses/x.mp4", *pdf.FileObjectKey)
}

func TestCreateLessonValidatesContentType(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())
	_, err := client.CreateLesson(context.Background(), LessonInput{ChapterID: 1, CourseID: 1, Title: "x", ContentType: "audio"})
	require.Error(t, err)
	assert.Equal(t, "content_type must be one of: video pdf image text quiz", err.Error())
}
