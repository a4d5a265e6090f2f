// Package platform classifies the host operating system.
//
// The engine only distinguishes a small closed set of categories, see
// [Platform]. Classification is a pure function of a host-identifying
// string:
//
//	p := platform.Detect("Mac OS X") // platform.Mac
//
// [DetectHost] reads the string from the running process, honoring the
// ENVSEED_OS_NAME override:
//
//	if platform.DetectHost() == platform.Windows {
//	    // ...
//	}
//
// Unknown inputs degrade to [Unknown]; detection never fails.
package platform
