package platform

// Platform is the closed set of host operating system categories the
// provisioning engine reasons about.
type Platform int

const (
	// Unknown is returned when the host cannot be classified.
	Unknown Platform = iota

	// Mac is any macOS host. iOS is not included.
	Mac

	// Windows is any Windows host.
	Windows

	// Unix covers Linux, the BSDs, AIX and other Unix flavors.
	// Android and ChromeOS are not included.
	Unix
)

// String returns the lower-case platform name used in plan files.
func (p Platform) String() string {
	switch p {
	case Mac:
		return "mac"
	case Windows:
		return "windows"
	case Unix:
		return "unix"
	default:
		return "unknown"
	}
}

// Parse returns the Platform named by s, as produced by String.
// The second return value is false if s names no platform.
func Parse(s string) (Platform, bool) {
	switch s {
	case "mac":
		return Mac, true
	case "windows":
		return Windows, true
	case "unix":
		return Unix, true
	case "unknown":
		return Unknown, true
	default:
		return Unknown, false
	}
}

// All returns every platform in declaration order.
func All() []Platform {
	return []Platform{Unknown, Mac, Windows, Unix}
}
