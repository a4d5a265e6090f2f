package platform

import (
	"os"
	"runtime"
	"strings"
)

// EnvOSName overrides the host string used by DetectHost.
const EnvOSName = "ENVSEED_OS_NAME"

// osNames maps GOOS values to the operating system names conventionally
// reported by runtimes. Detection matches substrings of these names, and a
// raw "darwin" would be classified as Windows because it contains "win".
var osNames = map[string]string{
	"darwin":    "Mac OS X",
	"windows":   "Windows",
	"linux":     "Linux",
	"freebsd":   "FreeBSD",
	"openbsd":   "OpenBSD",
	"netbsd":    "NetBSD",
	"dragonfly": "DragonFlyBSD",
	"aix":       "AIX",
	"solaris":   "SunOS",
	"illumos":   "SunOS",
}

// Detect classifies a host-identifying string. Matching is case-insensitive
// and by substring, checked in order: "win", "mac", then any of "nix", "nux",
// "aix" or "bsd". Anything else is Unknown.
func Detect(host string) Platform {
	name := strings.ToLower(host)

	switch {
	case strings.Contains(name, "win"):
		return Windows
	case strings.Contains(name, "mac"):
		return Mac
	case strings.Contains(name, "nix"),
		strings.Contains(name, "nux"),
		strings.Contains(name, "aix"),
		strings.Contains(name, "bsd"):
		return Unix
	default:
		return Unknown
	}
}

// DetectHost classifies the current host using HostName.
func DetectHost() Platform {
	return Detect(HostName())
}

// HostName returns the operating system name of the current host.
// The ENVSEED_OS_NAME environment variable takes precedence when set.
// Unmapped GOOS values are returned verbatim.
func HostName() string {
	if name, ok := os.LookupEnv(EnvOSName); ok && name != "" {
		return name
	}
	return hostName(runtime.GOOS)
}

func hostName(goos string) string {
	if name, ok := osNames[goos]; ok {
		return name
	}
	return goos
}
