package reconcile

import (
	"os"
	"strings"

	"github.com/dshills/platformset/internal/osinfo"
)

// Settings schema consumed by the reconciler.
const (
	// KeysSetting holds the optional ordered template list.
	KeysSetting = "platform_settings_keys"

	// GuardSetting marks a view whose settings have been reconciled at
	// least once. Kept for compatibility with stores that persist it; the
	// authoritative first-run flag is per-view reconciler state.
	GuardSetting = "platform_settings_was_here"

	// ListenerName tags the reconciler's change listener on a view store.
	ListenerName = "platform_settings"
)

// Placeholder tokens recognized in key templates.
const (
	placeholderPlatform = "${platform}"
	placeholderHostname = "${hostname}"
	placeholderSubsys   = "${os_subsys}"
)

// DefaultTemplates is the merge order used when platform_settings_keys is
// absent or empty. Later keys override earlier ones.
var DefaultTemplates = []string{
	"user_${platform}",
	"${platform}",
	"${platform}_${hostname}",
	"${hostname}_${os_subsys}",
	"${hostname}",
}

// Identity carries the ambient values substituted into key templates.
type Identity struct {
	// Platform is the host platform name (linux, darwin, windows).
	Platform string

	// Hostname is the lowercased first label of the local hostname.
	Hostname string

	// Subsys is the OS subsystem tag (none, wsl, msys2, cygwin).
	Subsys string
}

// NewIdentity derives an Identity from an OS snapshot and the local
// hostname. A hostname lookup failure leaves Hostname empty.
func NewIdentity(info *osinfo.Info) Identity {
	host, err := os.Hostname()
	if err != nil {
		host = ""
	}
	return IdentityFor(info, host)
}

// IdentityFor derives an Identity from an OS snapshot and an explicit
// hostname. The hostname is domain-stripped and lowercased.
func IdentityFor(info *osinfo.Info, hostname string) Identity {
	return Identity{
		Platform: info.Type,
		Hostname: strings.ToLower(strings.SplitN(hostname, ".", 2)[0]),
		Subsys:   info.Subsys,
	}
}

// Expand substitutes the identity into each template, producing concrete
// keys in merge-priority order.
func Expand(templates []string, id Identity) []string {
	r := strings.NewReplacer(
		placeholderPlatform, id.Platform,
		placeholderHostname, id.Hostname,
		placeholderSubsys, id.Subsys,
	)
	keys := make([]string, len(templates))
	for i, tpl := range templates {
		keys[i] = r.Replace(tpl)
	}
	return keys
}

// templatesFrom coerces a stored platform_settings_keys value to a
// template list. Absent, empty, or malformed values yield nil so the
// caller falls back to the defaults.
func templatesFrom(value any) []string {
	switch v := value.(type) {
	case []string:
		if len(v) == 0 {
			return nil
		}
		return v
	case []any:
		if len(v) == 0 {
			return nil
		}
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}
