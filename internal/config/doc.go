// Package config loads aula's settings and knows where every backend
// endpoint lives.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/aula/config.toml
//  3. If the file doesn't exist, start from Default()
//  4. Apply AULA_* environment variables on top (they always win)
//
// Missing config files are not an error.
//
// # TOML Format
//
//	api_base = "https://backend-tecnojuy2-production.up.railway.app"
//	origin = "http://localhost:4321"   # enables dev mode
//	log_level = "debug"
//	request_timeout = "30s"
//
//	[upload]
//	large_file_threshold = 52428800
//	large_timeout = "30m"
//
// # Endpoints
//
// Every backend route is an Endpoint value with a logical key ("auth.me"),
// an HTTP method and a relative pattern. Patterns with placeholders are
// filled with Endpoint.Path:
//
//	config.PostsDetail.Path(42)              // "/posts/42"
//	config.StorageDeleteFile.Path("a/b.png") // "/storage/file/a/b.png"
//
// # URL Resolution
//
// Resolver.Resolve is total. When the origin is localhost or 127.0.0.1 the
// path is prefixed with the dev proxy prefix and left origin-relative;
// Absolute joins it to the origin for dialing. Otherwise the configured base
// is used with its scheme forced to https. Repeated slashes in the path are
// collapsed, the query string is left alone.
package config
