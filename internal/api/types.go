package api

import "time"

// Role names the backend assigns.
const (
	RoleAdmin  = "admin"
	RoleAlumno = "alumno"
)

// User is the identity returned by /auth/me.
type User struct {
	ID               int    `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	AvatarURL        string `json:"avatar_url,omitempty"`
	HasPremiumAccess bool   `json:"has_premium_access"`
	RoleName         string `json:"role_name"`
}

// AuthUser is the full profile as seen by /users endpoints.
type AuthUser struct {
	User
	GoogleID  string     `json:"google_id"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type Role struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UserFilter narrows /users listings.
type UserFilter struct {
	Skip     *int
	Limit    *int
	RoleName string
	IsActive *bool
}

func (f UserFilter) query() Query {
	return Query{"skip": f.Skip, "limit": f.Limit, "role_name": f.RoleName, "is_active": f.IsActive}
}

type PostAuthor struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Post struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	IsPublished   bool       `json:"is_published"`
	Author        PostAuthor `json:"author"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type PostSummary struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	AuthorName    string    `json:"author_name"`
	CreatedAt     time.Time `json:"created_at"`
	IsPublished   bool      `json:"is_published"`
}

type PostCreate struct {
	Title         string `json:"title" validate:"required"`
	Content       string `json:"content" validate:"required"`
	CoverImageURL string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	IsPublished   bool   `json:"is_published"`
}

type PostUpdate struct {
	Title         *string `json:"title,omitempty"`
	Content       *string `json:"content,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
	IsPublished   *bool   `json:"is_published,omitempty"`
}

// PostFilter narrows post listings. Published only applies to admin listings.
type PostFilter struct {
	Skip        *int
	Limit       *int
	AuthorID    *int
	Search      string
	IsPublished *bool
}

// Course as listed publicly and in the admin panel.
type Course struct {
	ID                     int       `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	ShortDescription       string    `json:"short_description"`
	Category               string    `json:"category"`
	Level                  string    `json:"level"`
	Language               string    `json:"language"`
	Price                  string    `json:"price"`
	IsPremium              bool      `json:"is_premium"`
	IsPublished            bool      `json:"is_published"`
	InstructorName         string    `json:"instructor_name"`
	LessonCount            int       `json:"lesson_count"`
	EstimatedDurationHours float64   `json:"estimated_duration_hours"`
	CoverImageURL          string    `json:"cover_image_url,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// CourseInput creates or updates a course.
type CourseInput struct {
	Title                  string   `json:"title" validate:"required"`
	Description            string   `json:"description"`
	ShortDescription       string   `json:"short_description"`
	Category               string   `json:"category"`
	Level                  string   `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Language               string   `json:"language"`
	Price                  string   `json:"price"`
	IsPremium              bool     `json:"is_premium"`
	IsPublished            bool     `json:"is_published"`
	Tags                   []string `json:"tags,omitempty"`
	InstructorID           *int     `json:"instructor_id,omitempty"`
	EstimatedDurationHours float64  `json:"estimated_duration_hours,omitempty" validate:"gte=0"`
	CoverImageURL          string   `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

type Chapter struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	OrderIndex  int      `json:"order_index"`
	IsPublished bool     `json:"is_published"`
	CourseID    int      `json:"course_id"`
	Lessons     []Lesson `json:"lessons"`
}

type ChapterInput struct {
	CourseID    int    `json:"course_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
	IsPublished bool   `json:"is_published"`
}

type ChapterUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	OrderIndex  *int    `json:"order_index,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// Lesson content types.
const (
	ContentVideo = "video"
	ContentPDF   = "pdf"
	ContentImage = "image"
	ContentText  = "text"
	ContentQuiz  = "quiz"
)

type Lesson struct {
	ID                       int    `json:"id"`
	Title                    string `json:"title"`
	Description              string `json:"description"`
	ContentType              string `json:"content_type"`
	VideoURL                 string `json:"video_url,omitempty"`
	VideoDurationSeconds     int    `json:"video_duration_seconds,omitempty"`
	FileURL                  string `json:"file_url,omitempty"`
	FileType                 string `json:"file_type,omitempty"`
	FileSizeBytes            int64  `json:"file_size_bytes,omitempty"`
	TextContent              string `json:"text_content,omitempty"`
	OrderIndex               int    `json:"order_index"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
	IsPublished              bool   `json:"is_published"`
	IsFree                   bool   `json:"is_free"`
	CanDownload              bool   `json:"can_download"`
	ChapterID                int    `json:"chapter_id"`
	CourseID                 int    `json:"course_id"`
	IsCompleted              bool   `json:"is_completed,omitempty"`
	HasAccess                *bool  `json:"has_access,omitempty"`
}

type LessonInput struct {
	ChapterID                int    `json:"chapter_id" validate:"required,gt=0"`
	CourseID                 int    `json:"course_id" validate:"required,gt=0"`
	Title                    string `json:"title" validate:"required"`
	Description              string `json:"description"`
	ContentType              string `json:"content_type" validate:"required,oneof=video pdf image text quiz"`
	TextContent              string `json:"text_content,omitempty"`
	OrderIndex               int    `json:"order_index" validate:"gte=0"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes" validate:"gte=0"`
	IsPublished              bool   `json:"is_published"`
	IsFree                   bool   `json:"is_free"`
	CanDownload              bool   `json:"can_download"`
}

// LessonUpdate is a partial update. The file fields are filled after an
// upload to attach the stored object to the lesson.
type LessonUpdate struct {
	Title                    *string `json:"title,omitempty"`
	Description              *string `json:"description,omitempty"`
	ContentType              *string `json:"content_type,omitempty"`
	TextContent              *string `json:"text_content,omitempty"`
	OrderIndex               *int    `json:"order_index,omitempty"`
	EstimatedDurationMinutes *int    `json:"estimated_duration_minutes,omitempty"`
	IsPublished              *bool   `json:"is_published,omitempty"`
	IsFree                   *bool   `json:"is_free,omitempty"`
	CanDownload              *bool   `json:"can_download,omitempty"`
	VideoURL                 *string `json:"video_url,omitempty"`
	VideoObjectKey           *string `json:"video_object_key,omitempty"`
	FileURL                  *string `json:"file_url,omitempty"`
	FileObjectKey            *string `json:"file_object_key,omitempty"`
	FileType                 *string `json:"file_type,omitempty"`
	FileSizeBytes            *int64  `json:"file_size_bytes,omitempty"`
}

// AttachUpload fills the file fields of u from an upload result. Video
// lessons also get the video url and key.
func (u *LessonUpdate) AttachUpload(contentType string, res UploadResult) {
	url, key, ctype, size := res.PublicURL, res.ObjectKey, res.ContentType, res.Size
	u.FileURL = &url
	u.FileObjectKey = &key
	u.FileType = &ctype
	u.FileSizeBytes = &size
	if contentType == ContentVideo {
		u.VideoURL = &url
		u.VideoObjectKey = &key
	}
}

// CourseStructure is a course with its chapters, as returned by the
// structure endpoints.
type CourseStructure struct {
	Course
	Chapters  []Chapter `json:"chapters"`
	HasAccess *bool     `json:"has_access,omitempty"`
}

type Enrollment struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	CourseID    int       `json:"course_id"`
	UserName    string    `json:"user_name,omitempty"`
	UserEmail   string    `json:"user_email,omitempty"`
	CourseTitle string    `json:"course_title,omitempty"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

type CourseProgress struct {
	CourseID           int     `json:"course_id"`
	TotalLessons       int     `json:"total_lessons"`
	CompletedLessons   int     `json:"completed_lessons"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

type courseAccessRequest struct {
	UserID   int `json:"user_id" validate:"required,gt=0"`
	CourseID int `json:"course_id" validate:"required,gt=0"`
}

// AccessGrant is the response to premium or per-course grants.
type AccessGrant struct {
	Message    string      `json:"message"`
	User       *AuthUser   `json:"user,omitempty"`
	Enrollment *Enrollment `json:"enrollment,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HomepageContent struct {
	ID          int    `json:"id"`
	Section     string `json:"section" validate:"required"`
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ButtonText  string `json:"button_text,omitempty"`
	ButtonURL   string `json:"button_url,omitempty"`
	OrderIndex  int    `json:"order_index"`
	ExtraData   string `json:"extra_data,omitempty"`
}

type GalleryItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url" validate:"required"`
	Category    string `json:"category,omitempty"`
	IsFeatured  bool   `json:"is_featured"`
}

type HomepageData struct {
	Content []HomepageContent `json:"content"`
	Gallery []GalleryItem     `json:"gallery"`
}

type BlogCategory struct {
	ID          int       `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty" validate:"omitempty,hexcolor"`
	PostsCount  int       `json:"posts_count,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

type BlogTag struct {
	ID         int       `json:"id"`
	Name       string    `json:"name" validate:"required"`
	Slug       string    `json:"slug"`
	PostsCount int       `json:"posts_count,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

type BlogPost struct {
	ID                 int           `json:"id"`
	Title              string        `json:"title"`
	Slug               string        `json:"slug"`
	Excerpt            string        `json:"excerpt"`
	Content            string        `json:"content"`
	FeaturedImageURL   string        `json:"featured_image_url,omitempty"`
	MetaTitle          string        `json:"meta_title,omitempty"`
	MetaDescription    string        `json:"meta_description,omitempty"`
	IsPublished        bool          `json:"is_published"`
	IsFeatured         bool          `json:"is_featured"`
	PublishedAt        *time.Time    `json:"published_at,omitempty"`
	ReadingTimeMinutes int           `json:"reading_time_minutes"`
	ViewsCount         int           `json:"views_count"`
	Author             *PostAuthor   `json:"author,omitempty"`
	Category           *BlogCategory `json:"category,omitempty"`
	Tags               []BlogTag     `json:"tags"`
	CreatedAt          time.Time     `json:"created_at"`
}

type BlogPostInput struct {
	Title            string `json:"title" validate:"required"`
	Slug             string `json:"slug,omitempty"`
	Excerpt          string `json:"excerpt,omitempty"`
	Content          string `json:"content" validate:"required"`
	FeaturedImageURL string `json:"featured_image_url,omitempty" validate:"omitempty,url"`
	MetaTitle        string `json:"meta_title,omitempty" validate:"max=70"`
	MetaDescription  string `json:"meta_description,omitempty" validate:"max=160"`
	IsPublished      bool   `json:"is_published"`
	IsFeatured       bool   `json:"is_featured"`
	CategoryID       *int   `json:"category_id,omitempty"`
	TagIDs           []int  `json:"tag_ids,omitempty"`
}

// BlogFilter narrows blog listings. PublishedOnly is only honoured by the
// admin listing.
type BlogFilter struct {
	Page          *int
	PerPage       *int
	CategoryID    *int
	TagID         *int
	FeaturedOnly  *bool
	PublishedOnly *bool
	Search        string
	SortBy        string
	SortOrder     string
}

func (f BlogFilter) query(admin bool) Query {
	q := Query{
		"page":          f.Page,
		"per_page":      f.PerPage,
		"category_id":   f.CategoryID,
		"tag_id":        f.TagID,
		"featured_only": f.FeaturedOnly,
		"search":        f.Search,
		"sort_by":       f.SortBy,
		"sort_order":    f.SortOrder,
	}
	if admin {
		q["published_only"] = f.PublishedOnly
	}
	return q
}

type BlogPage struct {
	Posts   []BlogPost `json:"posts"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
	Pages   int        `json:"pages"`
}

type BlogStats struct {
	TotalPosts      int `json:"total_posts"`
	PublishedPosts  int `json:"published_posts"`
	DraftPosts      int `json:"draft_posts"`
	TotalViews      int `json:"total_views"`
	TotalCategories int `json:"total_categories"`
	TotalTags       int `json:"total_tags"`
	FeaturedPosts   int `json:"featured_posts"`
}

// UploadURLRequest asks for a pre-signed upload URL.
type UploadURLRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Folder      string `json:"folder,omitempty"`
}

type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	ObjectKey string `json:"object_key"`
	Filename  string `json:"filename"`
}

// UploadResult is the stored object after a proxy upload.
type UploadResult struct {
	PublicURL   string `json:"public_url"`
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type FileInfo struct {
	ObjectKey string `json:"object_key"`
	PublicURL string `json:"public_url"`
	Exists    bool   `json:"exists"`
}

// ImageUpload is returned by the image upload endpoints.
type ImageUpload struct {
	URL       string `json:"url"`
	PublicURL string `json:"public_url,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
}
