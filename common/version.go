package common

import "fmt"

const (
	major = 0
	minor = 1
	patch = 0

	// Version is the contracts version returned by the VersionMethod.
	Version = major*1_000_000 + minor*1_000 + patch

	// VersionMethod is supported by all the contracts.
	VersionMethod = "version"
)

// VersionString returns semantic version of the contracts.
func VersionString() string {
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}
