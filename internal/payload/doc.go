// Package payload zips split audio files, captions and the thumbnail into the
// ordered list handed to the delivery layer.
package payload
