package osinfo

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// platformVersion returns the Windows version as "major.minor.build".
func platformVersion() string {
	major, minor, build := windows.RtlGetNtVersionNumbers()
	return fmt.Sprintf("%d.%d.%d", major, minor, build)
}
