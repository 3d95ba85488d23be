package config

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Endpoint describes one backend operation. Pattern is always relative and
// starts with "/"; {name} placeholders are filled positionally by Path.
type Endpoint struct {
	Key     string
	Method  string
	Pattern string
}

// Path renders the endpoint path with params substituted in order.
// Missing params render as empty segments; extra params are ignored.
func (e Endpoint) Path(params ...any) string {
	var b strings.Builder
	rest := e.Pattern
	idx := 0
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			break
		}
		b.WriteString(rest[:open])
		if idx < len(params) {
			b.WriteString(formatParam(params[idx]))
		}
		idx++
		rest = rest[open+end+1:]
	}
	b.WriteString(rest)
	return b.String()
}

func (e Endpoint) String() string {
	return e.Key
}

func formatParam(v any) string {
	switch p := v.(type) {
	case string:
		// object keys carry folder separators; escape each segment on its own
		segments := strings.Split(p, "/")
		for i, s := range segments {
			segments[i] = url.PathEscape(s)
		}
		return strings.Join(segments, "/")
	case int:
		return strconv.Itoa(p)
	case int64:
		return strconv.FormatInt(p, 10)
	case fmt.Stringer:
		return url.PathEscape(p.String())
	default:
		return url.PathEscape(fmt.Sprint(p))
	}
}

// Auth
var (
	AuthGoogleLogin    = Endpoint{"auth.google.login", http.MethodGet, "/auth/google/login"}
	AuthGoogleCallback = Endpoint{"auth.google.callback", http.MethodGet, "/auth/google/callback"}
	AuthMe             = Endpoint{"auth.me", http.MethodGet, "/auth/me"}
	AuthRefresh        = Endpoint{"auth.refresh", http.MethodPost, "/auth/refresh"}
	AuthLogout         = Endpoint{"auth.logout", http.MethodPost, "/auth/logout"}
)

// Users
var (
	UsersProfile       = Endpoint{"users.profile", http.MethodGet, "/users/me"}
	UsersProfileUpdate = Endpoint{"users.profile.update", http.MethodPut, "/users/me"}
	UsersList          = Endpoint{"users.list", http.MethodGet, "/users"}
	UsersRoles         = Endpoint{"users.roles", http.MethodGet, "/users/roles"}
)

// Posts
var (
	PostsList        = Endpoint{"posts.list", http.MethodGet, "/posts"}
	PostsDetail      = Endpoint{"posts.detail", http.MethodGet, "/posts/{id}"}
	PostsCreate      = Endpoint{"posts.create", http.MethodPost, "/posts"}
	PostsUpdate      = Endpoint{"posts.update", http.MethodPut, "/posts/{id}"}
	PostsDelete      = Endpoint{"posts.delete", http.MethodDelete, "/posts/{id}"}
	PostsAdminList   = Endpoint{"posts.admin.list", http.MethodGet, "/posts/admin/all"}
	PostsAdminDetail = Endpoint{"posts.admin.detail", http.MethodGet, "/posts/admin/{id}"}
)

// Storage
var (
	StorageUploadURL   = Endpoint{"storage.upload_url", http.MethodPost, "/storage/upload-url"}
	StorageProxyUpload = Endpoint{"storage.proxy_upload", http.MethodPost, "/storage/proxy-upload"}
	StorageDownloadURL = Endpoint{"storage.download_url", http.MethodGet, "/storage/download-url"}
	StorageDeleteFile  = Endpoint{"storage.file.delete", http.MethodDelete, "/storage/file/{object_key}"}
	StorageFileInfo    = Endpoint{"storage.file_info", http.MethodGet, "/storage/file-info/{object_key}"}
)

// Courses (student and public views)
var (
	CoursesList            = Endpoint{"courses.list", http.MethodGet, "/courses/"}
	CoursesMine            = Endpoint{"courses.mine", http.MethodGet, "/courses/my-courses"}
	CoursesMineAll         = Endpoint{"courses.mine.all", http.MethodGet, "/courses/my-courses-all"}
	CoursesStructure       = Endpoint{"courses.structure", http.MethodGet, "/courses/{id}/structure"}
	CoursesStructureAccess = Endpoint{"courses.structure.access", http.MethodGet, "/courses/{id}/structure-with-access"}
	CoursesProgress        = Endpoint{"courses.progress", http.MethodGet, "/courses/courses/{id}/progress"}
	CoursesLessonContent   = Endpoint{"courses.lesson.content", http.MethodGet, "/courses/lessons/{id}/content"}
	CoursesLessonComplete  = Endpoint{"courses.lesson.complete", http.MethodPost, "/courses/lessons/{id}/complete"}
	CoursesDebug           = Endpoint{"courses.debug", http.MethodGet, "/courses/debug-courses"}
)

// Premium and per-course access grants
var (
	AccessGrantLifetime = Endpoint{"courses.access.grant_lifetime", http.MethodPost, "/courses/access/grant-lifetime/{user_id}"}
	AccessRevokePremium = Endpoint{"courses.premium.revoke", http.MethodPost, "/courses/premium/revoke/{user_id}"}
	AccessGrantCourse   = Endpoint{"courses.access.grant_course", http.MethodPost, "/courses/access/grant-course"}
	AccessRevokeCourse  = Endpoint{"courses.access.revoke_course", http.MethodPost, "/courses/access/revoke-course"}
)

// Course administration
var (
	AdminEnrollments     = Endpoint{"courses.admin.enrollments", http.MethodGet, "/courses/admin/enrollments"}
	AdminUserCourses     = Endpoint{"courses.admin.user_courses", http.MethodGet, "/courses/admin/user/{user_id}/courses"}
	AdminCoursesList     = Endpoint{"courses.admin.list", http.MethodGet, "/courses/admin/courses/"}
	AdminCoursesCreate   = Endpoint{"courses.admin.create", http.MethodPost, "/courses/admin/courses/"}
	AdminCoursesUpdate   = Endpoint{"courses.admin.update", http.MethodPut, "/courses/admin/courses/{id}"}
	AdminCoursesDelete   = Endpoint{"courses.admin.delete", http.MethodDelete, "/courses/admin/courses/{id}"}
	AdminCourseStructure = Endpoint{"courses.admin.structure", http.MethodGet, "/courses/admin/{id}/structure"}
	ChaptersCreate       = Endpoint{"chapters.create", http.MethodPost, "/courses/admin/chapters/"}
	ChaptersUpdate       = Endpoint{"chapters.update", http.MethodPut, "/courses/admin/chapters/{id}"}
	ChaptersDelete       = Endpoint{"chapters.delete", http.MethodDelete, "/courses/admin/chapters/{id}"}
	ChaptersReorder      = Endpoint{"chapters.reorder", http.MethodPut, "/courses/admin/{course_id}/chapters/reorder"}
	LessonsCreate        = Endpoint{"lessons.create", http.MethodPost, "/courses/admin/lessons/"}
	LessonsUpdate        = Endpoint{"lessons.update", http.MethodPut, "/courses/admin/lessons/{id}"}
	LessonsDelete        = Endpoint{"lessons.delete", http.MethodDelete, "/courses/admin/lessons/{id}"}
)

// Homepage
var (
	HomepageData          = Endpoint{"homepage.data", http.MethodGet, "/homepage/"}
	HomepageContentList   = Endpoint{"homepage.content.list", http.MethodGet, "/homepage/admin/content"}
	HomepageContentCreate = Endpoint{"homepage.content.create", http.MethodPost, "/homepage/admin/content"}
	HomepageContentUpdate = Endpoint{"homepage.content.update", http.MethodPut, "/homepage/admin/content/{id}"}
	HomepageContentDelete = Endpoint{"homepage.content.delete", http.MethodDelete, "/homepage/admin/content/{id}"}
	HomepageGalleryList   = Endpoint{"homepage.gallery.list", http.MethodGet, "/homepage/admin/gallery"}
	HomepageGalleryCreate = Endpoint{"homepage.gallery.create", http.MethodPost, "/homepage/admin/gallery"}
	HomepageGalleryUpdate = Endpoint{"homepage.gallery.update", http.MethodPut, "/homepage/admin/gallery/{id}"}
	HomepageGalleryDelete = Endpoint{"homepage.gallery.delete", http.MethodDelete, "/homepage/admin/gallery/{id}"}
	HomepageImageUpload   = Endpoint{"homepage.image.upload", http.MethodPost, "/homepage/admin/upload-image"}
)

// Blog
var (
	BlogPosts               = Endpoint{"blog.posts", http.MethodGet, "/blog/posts"}
	BlogPostBySlug          = Endpoint{"blog.post", http.MethodGet, "/blog/posts/{slug}"}
	BlogCategories          = Endpoint{"blog.categories", http.MethodGet, "/blog/categories"}
	BlogTags                = Endpoint{"blog.tags", http.MethodGet, "/blog/tags"}
	BlogAdminPosts          = Endpoint{"blog.admin.posts", http.MethodGet, "/blog/admin/posts"}
	BlogAdminPost           = Endpoint{"blog.admin.post", http.MethodGet, "/blog/admin/posts/{id}"}
	BlogAdminPostCreate     = Endpoint{"blog.admin.post.create", http.MethodPost, "/blog/admin/posts"}
	BlogAdminPostUpdate     = Endpoint{"blog.admin.post.update", http.MethodPut, "/blog/admin/posts/{id}"}
	BlogAdminPostDelete     = Endpoint{"blog.admin.post.delete", http.MethodDelete, "/blog/admin/posts/{id}"}
	BlogAdminCategories     = Endpoint{"blog.admin.categories", http.MethodGet, "/blog/admin/categories"}
	BlogAdminCategoryCreate = Endpoint{"blog.admin.category.create", http.MethodPost, "/blog/admin/categories"}
	BlogAdminCategoryUpdate = Endpoint{"blog.admin.category.update", http.MethodPut, "/blog/admin/categories/{id}"}
	BlogAdminCategoryDelete = Endpoint{"blog.admin.category.delete", http.MethodDelete, "/blog/admin/categories/{id}"}
	BlogAdminTags           = Endpoint{"blog.admin.tags", http.MethodGet, "/blog/admin/tags"}
	BlogAdminTagCreate      = Endpoint{"blog.admin.tag.create", http.MethodPost, "/blog/admin/tags"}
	BlogAdminTagUpdate      = Endpoint{"blog.admin.tag.update", http.MethodPut, "/blog/admin/tags/{id}"}
	BlogAdminTagDelete      = Endpoint{"blog.admin.tag.delete", http.MethodDelete, "/blog/admin/tags/{id}"}
	BlogAdminFeaturedImage  = Endpoint{"blog.admin.featured_image", http.MethodPost, "/blog/admin/upload-featured-image"}
	BlogAdminStats          = Endpoint{"blog.admin.stats", http.MethodGet, "/blog/admin/stats"}
)

// Endpoints returns the full table sorted by key.
func Endpoints() []Endpoint {
	all := []Endpoint{
		AuthGoogleLogin, AuthGoogleCallback, AuthMe, AuthRefresh, AuthLogout,
		UsersProfile, UsersProfileUpdate, UsersList, UsersRoles,
		PostsList, PostsDetail, PostsCreate, PostsUpdate, PostsDelete, PostsAdminList, PostsAdminDetail,
		StorageUploadURL, StorageProxyUpload, StorageDownloadURL, StorageDeleteFile, StorageFileInfo,
		CoursesList, CoursesMine, CoursesMineAll, CoursesStructure, CoursesStructureAccess,
		CoursesProgress, CoursesLessonContent, CoursesLessonComplete, CoursesDebug,
		AccessGrantLifetime, AccessRevokePremium, AccessGrantCourse, AccessRevokeCourse,
		AdminEnrollments, AdminUserCourses, AdminCoursesList, AdminCoursesCreate, AdminCoursesUpdate,
		AdminCoursesDelete, AdminCourseStructure, ChaptersCreate, ChaptersUpdate, ChaptersDelete,
		ChaptersReorder, LessonsCreate, LessonsUpdate, LessonsDelete,
		HomepageData, HomepageContentList, HomepageContentCreate, HomepageContentUpdate,
		HomepageContentDelete, HomepageGalleryList, HomepageGalleryCreate, HomepageGalleryUpdate,
		HomepageGalleryDelete, HomepageImageUpload,
		BlogPosts, BlogPostBySlug, BlogCategories, BlogTags, BlogAdminPosts, BlogAdminPost,
		BlogAdminPostCreate, BlogAdminPostUpdate, BlogAdminPostDelete, BlogAdminCategories,
		BlogAdminCategoryCreate, BlogAdminCategoryUpdate, BlogAdminCategoryDelete, BlogAdminTags,
		BlogAdminTagCreate, BlogAdminTagUpdate, BlogAdminTagDelete, BlogAdminFeaturedImage,
		BlogAdminStats,
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	return all
}

var endpointIndex = sync.OnceValue(func() map[string]Endpoint {
	all := Endpoints()
	idx := make(map[string]Endpoint, len(all))
	for _, e := range all {
		idx[e.Key] = e
	}
	return idx
})

// Lookup finds an endpoint by its logical key, e.g. "auth.me".
func Lookup(key string) (Endpoint, bool) {
	e, ok := endpointIndex()[key]
	return e, ok
}
