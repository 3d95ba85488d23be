package api

import (
	"context"
	"encoding/json"

	"github.com/tecnojuy/aula/internal/config"
)

// PublicCourses lists published courses.
func (c *Client) PublicCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.Do(ctx, Request{Endpoint: config.CoursesList}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyCourses lists the courses the current user is enrolled in.
func (c *Client) MyCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.Do(ctx, Request{Endpoint: config.CoursesMine}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyCoursesAll lists every course with the caller's access flags.
func (c *Client) MyCoursesAll(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.Do(ctx, Request{Endpoint: config.CoursesMineAll}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CourseStructure(ctx context.Context, courseID int) (*CourseStructure, error) {
	var out CourseStructure
	if err := c.Do(ctx, Request{Endpoint: config.CoursesStructure, Params: []any{courseID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CourseStructureWithAccess(ctx context.Context, courseID int) (*CourseStructure, error) {
	var out CourseStructure
	if err := c.Do(ctx, Request{Endpoint: config.CoursesStructureAccess, Params: []any{courseID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LessonContent(ctx context.Context, lessonID int) (*Lesson, error) {
	var out Lesson
	if err := c.Do(ctx, Request{Endpoint: config.CoursesLessonContent, Params: []any{lessonID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteLesson(ctx context.Context, lessonID int) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, Request{Endpoint: config.CoursesLessonComplete, Params: []any{lessonID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CourseProgress(ctx context.Context, courseID int) (*CourseProgress, error) {
	var out CourseProgress
	if err := c.Do(ctx, Request{Endpoint: config.CoursesProgress, Params: []any{courseID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DebugCourses returns the backend's raw course diagnostics.
func (c *Client) DebugCourses(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Do(ctx, Request{Endpoint: config.CoursesDebug}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Access grants

func (c *Client) GrantLifetimeAccess(ctx context.Context, userID int) (*AccessGrant, error) {
	var out AccessGrant
	if err := c.Do(ctx, Request{Endpoint: config.AccessGrantLifetime, Params: []any{userID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokePremiumAccess(ctx context.Context, userID int) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, Request{Endpoint: config.AccessRevokePremium, Params: []any{userID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GrantCourseAccess(ctx context.Context, userID, courseID int) (*AccessGrant, error) {
	body := courseAccessRequest{UserID: userID, CourseID: courseID}
	if err := Validate(body); err != nil {
		return nil, err
	}
	var out AccessGrant
	if err := c.Do(ctx, Request{Endpoint: config.AccessGrantCourse, Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokeCourseAccess(ctx context.Context, userID, courseID int) (*MessageResponse, error) {
	body := courseAccessRequest{UserID: userID, CourseID: courseID}
	if err := Validate(body); err != nil {
		return nil, err
	}
	var out MessageResponse
	if err := c.Do(ctx, Request{Endpoint: config.AccessRevokeCourse, Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Administration

func (c *Client) Enrollments(ctx context.Context) ([]Enrollment, error) {
	var out []Enrollment
	if err := c.Do(ctx, Request{Endpoint: config.AdminEnrollments}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserCourses lists every course with the given user's access to it.
func (c *Client) UserCourses(ctx context.Context, userID int) ([]Course, error) {
	var out []Course
	if err := c.Do(ctx, Request{Endpoint: config.AdminUserCourses, Params: []any{userID}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.Do(ctx, Request{Endpoint: config.AdminCoursesList}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCourse(ctx context.Context, in CourseInput) (*Course, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out Course
	if err := c.Do(ctx, Request{Endpoint: config.AdminCoursesCreate, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCourse(ctx context.Context, courseID int, in CourseInput) (*Course, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out Course
	if err := c.Do(ctx, Request{Endpoint: config.AdminCoursesUpdate, Params: []any{courseID}, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCourse(ctx context.Context, courseID int) error {
	return c.Do(ctx, Request{Endpoint: config.AdminCoursesDelete, Params: []any{courseID}}, nil)
}

// AdminCourseStructure returns the chapters (with lessons) of a course,
// drafts included.
func (c *Client) AdminCourseStructure(ctx context.Context, courseID int) ([]Chapter, error) {
	var out []Chapter
	if err := c.Do(ctx, Request{Endpoint: config.AdminCourseStructure, Params: []any{courseID}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateChapter(ctx context.Context, in ChapterInput) (*Chapter, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out Chapter
	if err := c.Do(ctx, Request{Endpoint: config.ChaptersCreate, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateChapter(ctx context.Context, chapterID int, in ChapterUpdate) (*Chapter, error) {
	var out Chapter
	if err := c.Do(ctx, Request{Endpoint: config.ChaptersUpdate, Params: []any{chapterID}, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteChapter(ctx context.Context, chapterID int) error {
	return c.Do(ctx, Request{Endpoint: config.ChaptersDelete, Params: []any{chapterID}}, nil)
}

// ReorderChapters persists the chapter order of a course. ids lists every
// chapter of the course in its new order.
func (c *Client) ReorderChapters(ctx context.Context, courseID int, ids []int) error {
	if len(ids) == 0 {
		return ValidationError("chapter_ids is required")
	}
	body := struct {
		ChapterIDs []int `json:"chapter_ids"`
	}{ids}
	return c.Do(ctx, Request{Endpoint: config.ChaptersReorder, Params: []any{courseID}, Body: body}, nil)
}

// MoveChapter returns the chapter ids with id shifted by delta positions
// (negative moves up). Moves past either end leave the order unchanged.
func MoveChapter(chapters []Chapter, id, delta int) ([]int, bool) {
	ids := make([]int, len(chapters))
	from := -1
	for i, ch := range chapters {
		ids[i] = ch.ID
		if ch.ID == id {
			from = i
		}
	}
	to := from + delta
	if from < 0 || to < 0 || to >= len(ids) || delta == 0 {
		return ids, false
	}
	moved := ids[from]
	ids = append(ids[:from], ids[from+1:]...)
	ids = append(ids[:to], append([]int{moved}, ids[to:]...)...)
	return ids, true
}

func (c *Client) CreateLesson(ctx context.Context, in LessonInput) (*Lesson, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out Lesson
	if err := c.Do(ctx, Request{Endpoint: config.LessonsCreate, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLesson(ctx context.Context, lessonID int, in LessonUpdate) (*Lesson, error) {
	var out Lesson
	if err := c.Do(ctx, Request{Endpoint: config.LessonsUpdate, Params: []any{lessonID}, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLesson(ctx context.Context, lessonID int) error {
	return c.Do(ctx, Request{Endpoint: config.LessonsDelete, Params: []any{lessonID}}, nil)
}
