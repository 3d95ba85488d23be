package upload

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tecnojuy/aula/internal/api"
)

// Policy limits what may be uploaded. Allowed entries are exact media types
// or "type/*" wildcards.
type Policy struct {
	Name    string
	MaxSize int64
	Allowed []string
	// Reject, when set, refuses every file with this message.
	Reject string
}

var (
	imageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}
	docTypes   = []string{"application/pdf", "text/plain"}
	videoTypes = []string{"video/mp4", "video/avi", "video/quicktime"}
	audioTypes = []string{"audio/mpeg", "audio/wav", "audio/ogg"}
)

// GeneralPolicy is the default for ad-hoc uploads: images, documents, video
// and audio up to maxSize.
func GeneralPolicy(maxSize int64) Policy {
	allowed := slices.Concat(imageTypes, docTypes, videoTypes, audioTypes)
	return Policy{Name: "file", MaxSize: maxSize, Allowed: allowed}
}

const mib = 1 << 20

// LessonPolicy returns the rules for attaching a file to a lesson of the
// given content type.
func LessonPolicy(contentType string) (Policy, error) {
	switch contentType {
	case api.ContentVideo:
		return Policy{Name: "video", MaxSize: 500 * mib, Allowed: []string{"video/*"}}, nil
	case api.ContentPDF:
		return Policy{Name: "pdf", MaxSize: 50 * mib, Allowed: []string{"application/pdf"}}, nil
	case api.ContentImage:
		return Policy{Name: "image", MaxSize: 20 * mib, Allowed: []string{"image/*"}}, nil
	case api.ContentText, api.ContentQuiz:
		return Policy{Name: contentType, Reject: "This lesson does not accept files"}, nil
	default:
		return Policy{}, api.ValidationError(fmt.Sprintf("unknown lesson content type %q", contentType))
	}
}

// Check validates f before any network traffic. Failures are KindValidation
// api errors.
func (p Policy) Check(f File) error {
	if p.Reject != "" {
		return api.ValidationError(p.Reject)
	}
	if err := api.Validate(f); err != nil {
		return err
	}
	if f.Size() == 0 {
		return api.ValidationError("file is empty")
	}
	if !p.allows(f.ContentType) {
		return api.ValidationError(fmt.Sprintf("Invalid file type %s. Expected %s.", f.ContentType, strings.ToUpper(p.Name)))
	}
	if p.MaxSize > 0 && f.Size() > p.MaxSize {
		return api.ValidationError(fmt.Sprintf("File exceeds the maximum for %s (%s).", strings.ToUpper(p.Name), FormatSize(p.MaxSize)))
	}
	return nil
}

func (p Policy) allows(contentType string) bool {
	if len(p.Allowed) == 0 {
		return true
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, rule := range p.Allowed {
		if prefix, ok := strings.CutSuffix(rule, "/*"); ok {
			if strings.HasPrefix(ct, prefix+"/") {
				return true
			}
			continue
		}
		if ct == rule {
			return true
		}
	}
	return false
}
