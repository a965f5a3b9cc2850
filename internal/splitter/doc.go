// Package splitter cuts downloaded audio into the parts planned by the scheme
// package, using ffmpeg stream copy so no re-encoding happens.
package splitter
