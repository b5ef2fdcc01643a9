//go:build !unix && !windows

package command

// IsElevated has no privilege model to consult on this platform.
func IsElevated() bool {
	return false
}
