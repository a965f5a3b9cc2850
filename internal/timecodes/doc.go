// Package timecodes turns the chapter lines of a video description into one
// timecode listing per split part.
//
// Lines are recognised when they start with an M:SS, MM:SS or H:MM:SS token.
// Listings are rebased to the start of their part so a listener can seek
// within the delivered file.
package timecodes
