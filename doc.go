// Package viewerprefs persists a small set of viewer preferences (default playback
// mode, short-video duration filter, dark mode) across a key/value storage backend
// and cookies, and validates URLs.
//
// Every preference operation is total: storage, cookie and serialization failures
// are logged and replaced by the preference's default. Backends live in the storage,
// cache and cookies sub-packages; package api exposes the preferences over HTTP.
package viewerprefs
