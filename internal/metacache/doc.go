// Package metacache keeps yt-dlp metadata lookups in redis so repeated
// commands for the same movie skip the remote call.
//
// The cache is optional. When no redis address is configured callers wrap
// their fetcher with a nil *Cache and every lookup goes straight through.
package metacache
