package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrNotObject indicates a settings document whose top level is not a
// JSON object.
var ErrNotObject = errors.New("settings document is not a JSON object")

// Document is a Store backed by a JSON settings file.
// A missing file loads as an empty document; Save creates it.
type Document struct {
	*MemoryStore
	path string
}

// LoadDocument reads the JSON settings file at path.
func LoadDocument(path string) (*Document, error) {
	doc := &Document{
		MemoryStore: NewMemoryStore(),
		path:        path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("reading settings document %s: %w", path, err)
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, path)
	}

	parsed.ForEach(func(key, value gjson.Result) bool {
		doc.values[key.String()] = value.Value()
		return true
	})
	return doc, nil
}

// Path returns the backing file path.
func (d *Document) Path() string {
	return d.path
}

// Save writes the current values back to the backing file.
func (d *Document) Save() error {
	out := "{}"
	for _, key := range d.Keys() {
		var err error
		out, err = sjson.Set(out, escapePath(key), d.Get(key, nil))
		if err != nil {
			return fmt.Errorf("encoding setting %q: %w", key, err)
		}
	}
	if err := os.WriteFile(d.path, []byte(out+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing settings document %s: %w", d.path, err)
	}
	return nil
}

// escapePath escapes gjson path syntax so setting names containing dots
// stay top-level keys instead of becoming nested objects.
func escapePath(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`)
	return r.Replace(key)
}
