// Package textutil provides text helpers for filename sanitization and
// case-insensitive query matching.
//
// Filenames derived from video titles go through SanitizeFileName, which
// normalizes to NFC, drops control characters and replaces path separators.
// MatchesQuery tokenizes with Unicode case folding so Cyrillic and Latin
// subtitle searches behave the same way.
package textutil
