package osinfo

import (
	"regexp"
	"strings"

	"github.com/dshills/platformset/internal/version"
)

// os-release line grammar: KEY=VALUE, uppercase keys, optional quoting.
var (
	releaseLineRx  = regexp.MustCompile(`^\s*([A-Z0-9_]+)\s*=\s*(.*)$`)
	releaseQuoteRx = regexp.MustCompile(`^(["'])(.*)(["'])$`)
)

// parseOSRelease resolves ID and Version from the os-release descriptor.
// An unreadable file leaves the prior values untouched; unparseable lines
// are skipped.
func (i *Info) parseOSRelease() {
	data, err := i.probe.readFile(i.probe.releasePath)
	if err != nil {
		return
	}

	fields := parseReleaseFields(string(data))

	id := fields["ID"]
	if id == "" || id == "generic" {
		id = fields["ID_LIKE"]
	}
	if id != "" {
		i.ID = id
	}

	if raw := fields["VERSION_ID"]; raw != "" {
		if v, err := version.Parse(raw); err == nil {
			i.Version = v
		}
	}
}

// parseReleaseFields parses line-oriented KEY=VALUE content, stripping
// matching surrounding quotes from values.
func parseReleaseFields(content string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		m := releaseLineRx.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		key := m[1]
		val := strings.TrimSpace(m[2])
		if q := releaseQuoteRx.FindStringSubmatch(val); q != nil && q[1] == q[3] {
			val = q[2]
		}
		fields[key] = val
	}
	return fields
}
