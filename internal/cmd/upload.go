package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/tecnojuy/aula/internal/api"
	"github.com/tecnojuy/aula/internal/prefs"
	"github.com/tecnojuy/aula/internal/upload"
)

type uploadOptions struct {
	folder     string
	lessonType string
	signed     bool
}

func newUploadCmd(o *rootOptions) *cobra.Command {
	u := &uploadOptions{}
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to platform storage",
		Long: `Uploads a local file through the backend storage proxy and prints its public URL.

Files are checked before anything is sent. Without --lesson-type the general
rules apply (images, PDF, text, video and audio up to upload.max_size). With
--lesson-type the lesson rules apply: video up to 500 MB, pdf up to 50 MB,
image up to 20 MB; text and quiz lessons take no files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, o, u, args[0])
		},
	}
	cmd.Flags().StringVar(&u.folder, "folder", "", "destination folder (default from prefs, then \"courses\")")
	cmd.Flags().StringVar(&u.lessonType, "lesson-type", "", "validate for a lesson type: video, pdf, image, text, quiz")
	cmd.Flags().BoolVar(&u.signed, "signed", false, "upload straight to storage with a pre-signed URL")
	return cmd
}

func runUpload(cmd *cobra.Command, o *rootOptions, u *uploadOptions, path string) error {
	env, err := o.env(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	file, err := upload.ReadFile(path)
	if err != nil {
		return err
	}
	policy := upload.GeneralPolicy(env.Config.Upload.MaxSize)
	if u.lessonType != "" {
		if policy, err = upload.LessonPolicy(u.lessonType); err != nil {
			return err
		}
	}
	if err := policy.Check(file); err != nil {
		return err
	}

	folder := u.folder
	if folder == "" {
		p, _ := prefs.Load("")
		folder = p.UploadFolder
	}

	progress := newProgressLine(cmd.ErrOrStderr(), file.Name)
	var res api.UploadResult
	if u.signed {
		res, err = env.Uploader.SignedUpload(cmd.Context(), file, folder, progress.report)
	} else {
		res, err = env.Uploader.Upload(cmd.Context(), file, folder, progress.report)
	}
	progress.done()
	if err != nil {
		return err
	}

	if o.jsonOut {
		return printJSON(cmd.OutOrStdout(), res)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "URL:   %s\n", res.PublicURL)
	fmt.Fprintf(w, "Key:   %s\n", res.ObjectKey)
	if res.Size > 0 {
		fmt.Fprintf(w, "Size:  %s\n", upload.FormatSize(res.Size))
	}
	return nil
}

// progressLine redraws a single "name  NN%" line on w.
type progressLine struct {
	mu    sync.Mutex
	w     io.Writer
	name  string
	last  int
	drawn bool
}

func newProgressLine(w io.Writer, name string) *progressLine {
	return &progressLine{w: w, name: name, last: -1}
}

func (p *progressLine) report(pct int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pct == p.last {
		return
	}
	p.last = pct
	p.drawn = true
	fmt.Fprintf(p.w, "\r%s %3d%%", p.name, pct)
}

func (p *progressLine) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprintln(p.w)
	}
}
