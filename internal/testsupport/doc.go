// Package testsupport builds throwaway configs, files and stores for tests in
// other packages.
package testsupport
