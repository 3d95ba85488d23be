package upload

import (
	"context"

	"github.com/tecnojuy/aula/internal/api"
)

// SignedUpload is the two-step alternative to Upload: ask the backend for a
// pre-signed URL, then PUT the bytes straight to object storage. Progress
// jumps to 25 once the URL is issued and to 100 after the PUT succeeds.
func (u *Uploader) SignedUpload(ctx context.Context, file File, folder string, onProgress ProgressFunc) (api.UploadResult, error) {
	if err := api.Validate(file); err != nil {
		return api.UploadResult{}, err
	}
	if folder == "" {
		folder = DefaultFolder
	}
	p := newProgress(onProgress)

	timeout := u.Timeout(file.Size())
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var signed *api.UploadURLResponse
	err := u.auth.Do(ctx, func(ctx context.Context) error {
		resp, err := u.client.UploadURL(ctx, api.UploadURLRequest{
			Filename:    file.Name,
			ContentType: file.ContentType,
			Folder:      folder,
		})
		if err != nil {
			return err
		}
		signed = resp
		return nil
	})
	if err != nil {
		return api.UploadResult{}, u.classify(ctx, err, timeout)
	}
	p.set(25)

	if err := u.client.PutSigned(ctx, signed.UploadURL, file.ContentType, file.Data); err != nil {
		err = u.classify(ctx, err, timeout)
		u.log.Warn().Err(err).Str("file", file.Name).Msg("signed upload failed")
		return api.UploadResult{}, err
	}
	p.finish()
	u.log.Info().Str("file", file.Name).Str("object_key", signed.ObjectKey).Msg("signed upload complete")
	return api.UploadResult{
		PublicURL:   signed.PublicURL,
		ObjectKey:   signed.ObjectKey,
		ContentType: file.ContentType,
		Size:        file.Size(),
	}, nil
}
