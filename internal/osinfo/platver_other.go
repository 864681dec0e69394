//go:build !windows && !darwin

package osinfo

// platformVersion has no meaning outside Windows and macOS; version comes
// from the os-release descriptor instead.
func platformVersion() string {
	return ""
}
