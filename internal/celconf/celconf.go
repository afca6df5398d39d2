// Package celconf reads the CEL engine's on-disk configuration: a
// key=value file with a `[general]` section, in Asterisk's own cel.conf
// format. It is a demo reader standing in for whatever external config
// parser a real deployment uses — internal/config.Source is the actual
// contract the engine depends on; this package only produces one.
package celconf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/halvard/celd/internal/config"
)

// Load reads the cel.conf-format file at path and returns a
// config.Source built from its `[general]` section.
func Load(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("opening cel config: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Source mirrors internal/config.Source's field shape so callers don't
// need to import internal/config just to hold the parsed values before
// handing them to a Store.
type Source struct {
	Enabled    bool
	DateFormat string
	Apps       string
	Events     string
}

// Parse reads cel.conf-format content from r. Sections named `manager`
// or `radius` are reserved for sibling subsystems and are skipped
// (spec.md §6); only `[general]` is read.
func Parse(r io.Reader) (Source, error) {
	var src Source

	section := ""
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		if section != "general" {
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}

		switch key {
		case "enable":
			src.Enabled = parseBool(value)
		case "dateformat":
			src.DateFormat = value
		case "apps":
			src.Apps = value
		case "events":
			src.Events = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Source{}, fmt.Errorf("reading cel config: %w", err)
	}

	return src, nil
}

func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(line[:idx]))
	value = strings.TrimSpace(line[idx+1:])
	return key, value, true
}

// ToConfigSource converts the parsed Source into the shape
// internal/config.Store.Load expects.
func (src Source) ToConfigSource() config.Source {
	return config.Source{
		Enabled:    src.Enabled,
		DateFormat: src.DateFormat,
		Apps:       src.Apps,
		Events:     src.Events,
	}
}

// parseBool accepts Asterisk's usual yes/no/true/false/on/off/1/0
// spellings; anything else is treated as false (spec.md §6 default).
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "on", "1":
		return true
	default:
		return false
	}
}
