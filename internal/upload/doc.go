// Package upload moves files from disk to the platform's object storage.
//
// The default path is the backend upload proxy: the file is encoded as
// multipart form data ("file" plus "folder") and posted with the session's
// cookies. Progress is reported from the bytes the transport has pulled from
// the body, clamped to 1..99 while in flight, and only reaches 100 once the
// server has answered with the stored object. Large payloads get a longer
// deadline, and a stalled transfer is logged once per stall.
//
// Every transfer runs through an Authenticator, normally the session
// manager, so an expired access token is refreshed once and the payload is
// resent once. Progress stays monotonic across that resend.
//
// Policies validate files before any network traffic: GeneralPolicy for
// ad-hoc uploads and LessonPolicy for lesson attachments, where video, pdf
// and image lessons each have their own size cap and type rule.
//
// Start wraps Upload in a Task for callers like the TUI that need to watch
// progress on a channel and cancel mid-flight.
package upload
