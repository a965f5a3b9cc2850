// Package storelock serializes runs on the same movie with a file lock per
// movie id in the store directory, so two invocations never write the same
// artifacts at once.
package storelock
