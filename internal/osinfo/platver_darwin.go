package osinfo

import (
	"os/exec"
	"strings"
)

// platformVersion returns the macOS product version (e.g. "14.4.1").
func platformVersion() string {
	out, err := exec.Command("sw_vers", "-productVersion").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
