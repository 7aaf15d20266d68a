package ingest

import (
	"bytes"
	"errors"
	"gopkg.in/yaml.v3"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var errNoFrontMatter = errors.New("no front matter found")
var errInvalidFrontMatter = errors.New("invalid front matter")

// FrontMatter is one episode record, either the YAML header of a markdown
// file or an entry of the feed file.
type FrontMatter struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`

	Model    string `yaml:"model"`
	Origin   string `yaml:"origin"`
	Locale   string `yaml:"locale"`
	Region   string `yaml:"region"`
	Zone     string `yaml:"zone"`
	Location string `yaml:"location"`

	Published string  `yaml:"published"`
	Duration  float64 `yaml:"duration"`
	Integrity float64 `yaml:"integrity"`
	Hidden    bool    `yaml:"hidden"`

	// Body is only read from feed entries; markdown files carry their body
	// after the header.
	Body string `yaml:"body"`
}

func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return FrontMatter{}, raw, errNoFrontMatter
	}

	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return FrontMatter{}, norm, errNoFrontMatter
	}
	rest := norm[len(sepLine):]

	var yamlPart, bodyPart []byte
	switch {
	case bytes.HasPrefix(rest, []byte(sepLine)):
		// empty header followed by a body
		bodyPart = rest[len(sepLine):]
	case bytes.Contains(rest, []byte(closeMid)):
		parts := bytes.SplitN(rest, []byte(closeMid), 2)
		yamlPart, bodyPart = parts[0], parts[1]
	case bytes.HasSuffix(rest, []byte("\n"+sep)):
		// header only, no body
		yamlPart = rest[:len(rest)-len("\n"+sep)]
	case bytes.Equal(bytes.TrimSpace(rest), []byte(sep)):
	default:
		return FrontMatter{}, norm, errInvalidFrontMatter
	}

	yamlPart = bytes.TrimSpace(yamlPart)
	bodyPart = bytes.TrimSpace(bodyPart)

	var fm FrontMatter
	if len(yamlPart) > 0 {
		if err := yaml.Unmarshal(yamlPart, &fm); err != nil {
			return FrontMatter{}, norm, err
		}
	}
	return fm, bodyPart, nil
}

// ResolveID picks the episode ID: the id field, then the title, then the file
// name, each slugified.
func ResolveID(fm FrontMatter, path string) string {
	if s := strings.TrimSpace(fm.ID); s != "" {
		return slugify(s)
	}
	if t := strings.TrimSpace(fm.Title); t != "" {
		return slugify(t)
	}
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return slugify(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ParseTime reads a real-world timestamp such as a publish date. Anything
// unrecognized yields the zero time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		time.DateOnly,
		"2006-01-02 15:04",
		time.DateTime,
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

func slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToLower(r))
			lastDash = false
			continue
		}
		if !lastDash && len(out) > 0 {
			out = append(out, '-')
			lastDash = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
