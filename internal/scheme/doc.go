// Package scheme computes split plans: ordered parts whose durations always
// add up to the source duration.
package scheme
