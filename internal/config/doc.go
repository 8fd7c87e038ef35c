// Package config loads shelf's settings.
//
// # Resolution
//
//  1. .env.local and .env in the working directory are loaded into the
//     environment (LoadDotEnv); real environment variables win.
//  2. The TOML file at the given path, or ~/.config/shelf/config.toml, is
//     read. A missing file means defaults.
//  3. SHELF_BACKEND_URL, when present, replaces backend_url. Setting it to
//     an empty string forces preview mode.
//
// # TOML Format
//
//	backend_url     = "https://books.example.com"   # empty: preview mode
//	login_path      = "/login"
//	catalog_url     = "https://www.googleapis.com/books/v1/volumes"
//	log_file        = "~/.local/state/shelf/shelf.log"
//	request_timeout = 10                             # seconds
//	session_cookie  = "sid=..."                      # optional
//
// Every key is optional. Paths accept a leading ~.
package config
