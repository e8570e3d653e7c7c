// Package manifest patches the fan app's web manifest in place.
package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const DefaultVersion = "1.0.0"

var ErrInvalidManifest = errors.New("manifest.json is not a JSON object")

// Icon is one entry of the manifest icons list.
type Icon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose,omitempty"`
}

// Patch lists the edits applied to a manifest. Empty fields are left untouched.
type Patch struct {
	BumpVersion bool
	Name        string
	ShortName   string
	ThemeColor  string
	Icons       []Icon
}

// Result is the patched manifest plus the versions before and after.
type Result struct {
	JSON        []byte
	OldVersion  string
	NewVersion  string
	NameChanged bool
}

// Apply edits raw in place, keeping unrelated keys and their formatting.
func Apply(raw []byte, p Patch) (*Result, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, ErrInvalidManifest
	}

	out := append([]byte(nil), raw...)
	res := &Result{OldVersion: gjson.GetBytes(raw, "version").String()}
	res.NewVersion = res.OldVersion

	var err error
	set := func(path string, v any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, v)
	}

	if p.BumpVersion {
		res.NewVersion = NextVersion(res.OldVersion)
		// An integer version stays a JSON number.
		if gjson.GetBytes(raw, "version").Type == gjson.Number && isInteger(res.NewVersion) {
			if err == nil {
				out, err = sjson.SetRawBytes(out, "version", []byte(res.NewVersion))
			}
		} else {
			set("version", res.NewVersion)
		}
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		res.NameChanged = gjson.GetBytes(raw, "name").String() != name
		set("name", name)
		short := strings.TrimSpace(p.ShortName)
		if short == "" {
			short = name
		}
		set("short_name", short)
	}
	if c := strings.TrimSpace(p.ThemeColor); c != "" {
		set("theme_color", c)
	}
	if len(p.Icons) > 0 {
		set("icons", p.Icons)
	}
	if err != nil {
		return nil, fmt.Errorf("patch manifest: %w", err)
	}

	res.JSON = out
	return res, nil
}

// NextVersion increments the last numeric component of v. Integers count up,
// dotted versions bump their patch, anything unparseable restarts at DefaultVersion.
func NextVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultVersion
	}
	prefix := ""
	if strings.HasPrefix(v, "v") {
		prefix, v = "v", v[1:]
	}

	parts := strings.Split(v, ".")
	last, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || last < 0 {
		return DefaultVersion
	}
	for _, p := range parts[:len(parts)-1] {
		if _, err := strconv.Atoi(p); err != nil {
			return DefaultVersion
		}
	}
	parts[len(parts)-1] = strconv.Itoa(last + 1)
	return prefix + strings.Join(parts, ".")
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
