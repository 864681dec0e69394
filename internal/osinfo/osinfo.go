// Package osinfo identifies the host operating system.
//
// An Info snapshot carries the CPU architecture, word size, coarse OS type,
// OS family, distribution identifier, Unix-compatibility subsystem, and a
// parsed OS version. On Linux and other Unix-likes the identifier and
// version come from the os-release descriptor file and can be re-resolved
// at any time with Refresh.
package osinfo

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/dshills/platformset/internal/version"
)

// Known family values.
const (
	FamilyWindows = "windows"
	FamilyDarwin  = "darwin"
	FamilyRedHat  = "redhat"
	FamilyDebian  = "debian"
)

// Known subsystem values.
const (
	SubsysNone   = "none"
	SubsysWSL    = "wsl"
	SubsysMsys2  = "msys2"
	SubsysCygwin = "cygwin"
)

// IDUnknown is the distribution identifier before resolution succeeds.
const IDUnknown = "unknown"

// DefaultReleasePath is the standard location of the os-release descriptor.
const DefaultReleasePath = "/etc/os-release"

// redhatProbe is the file whose presence marks a Red Hat style system.
const redhatProbe = "/etc/redhat-release"

// Info is a point-in-time snapshot of host identity.
type Info struct {
	// Arch is the lowercased CPU architecture (amd64, arm64, ...).
	Arch string

	// Bits is the word size, 64 or 32, inferred from Arch.
	Bits int

	// Type is the lowercased coarse OS type (windows, darwin, linux, ...).
	Type string

	// Family is windows, darwin, redhat, or debian.
	Family string

	// ID is the distribution identifier (ubuntu, fedora, windows, ...).
	// It stays "unknown" until resolution succeeds.
	ID string

	// Subsys is the detected Unix-compatibility subsystem.
	Subsys string

	// Version is the parsed OS version.
	Version version.Version

	probe probe
}

// probe holds the introspection hooks, overridable for tests.
type probe struct {
	goos        string
	arch        string
	lookupEnv   func(string) (string, bool)
	fileExists  func(string) bool
	readFile    func(string) ([]byte, error)
	releasePath string
	platformVer func() string
}

// Option overrides one of the host-introspection hooks.
type Option func(*probe)

// WithGOOS overrides the detected OS type.
func WithGOOS(goos string) Option {
	return func(p *probe) { p.goos = goos }
}

// WithArch overrides the detected CPU architecture.
func WithArch(arch string) Option {
	return func(p *probe) { p.arch = arch }
}

// WithEnv overrides environment variable lookup.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(p *probe) { p.lookupEnv = lookup }
}

// WithFileExists overrides the filesystem existence probe.
func WithFileExists(exists func(string) bool) Option {
	return func(p *probe) { p.fileExists = exists }
}

// WithReadFile overrides file reading for the os-release descriptor.
func WithReadFile(read func(string) ([]byte, error)) Option {
	return func(p *probe) { p.readFile = read }
}

// WithReleasePath overrides the os-release descriptor location.
func WithReleasePath(path string) Option {
	return func(p *probe) { p.releasePath = path }
}

// WithPlatformVersion overrides the Windows/macOS version source.
func WithPlatformVersion(fn func() string) Option {
	return func(p *probe) { p.platformVer = fn }
}

func defaultProbe() probe {
	return probe{
		goos: runtime.GOOS,
		arch: runtime.GOARCH,
		lookupEnv: func(key string) (string, bool) {
			return os.LookupEnv(key)
		},
		fileExists: func(path string) bool {
			fi, err := os.Stat(path)
			return err == nil && fi.Mode().IsRegular()
		},
		readFile:    os.ReadFile,
		releasePath: DefaultReleasePath,
		platformVer: platformVersion,
	}
}

// New builds an Info snapshot from the current host.
// All introspection is synchronous and local; there are no network calls.
func New(opts ...Option) *Info {
	p := defaultProbe()
	for _, opt := range opts {
		opt(&p)
	}

	info := &Info{
		Arch:   strings.ToLower(p.arch),
		Type:   strings.ToLower(p.goos),
		ID:     IDUnknown,
		Subsys: SubsysNone,
		probe:  p,
	}

	info.Bits = 32
	if strings.Contains(info.Arch, "64") {
		info.Bits = 64
	}

	info.Family = info.detectFamily()
	info.Subsys = info.detectSubsys()

	switch info.Type {
	case "windows":
		info.ID = "windows"
		info.Version = parsePlatformVersion(p.platformVer)
	case "darwin":
		info.ID = "darwin"
		info.Version = parsePlatformVersion(p.platformVer)
	default:
		info.parseOSRelease()
	}

	return info
}

// Refresh re-resolves identifier and version from the os-release descriptor.
// It is a no-op on Windows and macOS and safe to call repeatedly.
func (i *Info) Refresh() {
	switch i.Type {
	case "windows", "darwin":
		return
	}
	i.parseOSRelease()
}

// String renders the snapshot for diagnostics.
func (i *Info) String() string {
	return fmt.Sprintf("OsInfo[arch: %s, bits: %d, family: %s, id: %s, subsys: %s, type: %s, version: %s]",
		i.Arch, i.Bits, i.Family, i.ID, i.Subsys, i.Type, i.Version)
}

func (i *Info) detectFamily() string {
	switch i.Type {
	case "windows", "darwin":
		return i.Type
	}
	if i.probe.fileExists(redhatProbe) {
		return FamilyRedHat
	}
	return FamilyDebian
}

func (i *Info) detectSubsys() string {
	env := func(key string) bool {
		_, ok := i.probe.lookupEnv(key)
		return ok
	}

	switch i.Type {
	case "linux":
		if env("WSLENV") {
			return SubsysWSL
		}
	case "windows":
		if env("BASH_ENV") {
			if env("MSYSTEM") {
				return SubsysMsys2
			}
			return SubsysCygwin
		}
	}
	return SubsysNone
}

func parsePlatformVersion(source func() string) version.Version {
	if source == nil {
		return version.Version{}
	}
	v, err := version.Parse(source())
	if err != nil {
		return version.Version{}
	}
	return v
}
