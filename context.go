package orgtree

import (
	"io"
	"log/slog"
	"os"

	console "github.com/ansel1/console-slog"
	"gopkg.in/yaml.v3"
)

// Context is the headline layer's per-call configuration (Section 6): the
// accepted keyword set, plus a logger for the core's rare diagnostic
// messages. It generalizes org.Configuration the way go-org's plain
// *log.Logger generalizes to structured logging here.
type Context struct {
	// Keywords is the set of tokens recognized as a headline's TODO-style
	// keyword (default {"TODO", "DONE"}).
	Keywords []string

	// Logger receives diagnostic-only messages; never required for
	// correctness (Section 7 -- every fallible path already returns an
	// error of its own).
	Logger *slog.Logger
}

// defaultKeywords is the keyword set used when none is supplied.
var defaultKeywords = []string{"TODO", "DONE"}

// NewContext builds a Context with the given keyword set, or the default
// {"TODO", "DONE"} if keywords is empty, and a console logger writing to
// stderr.
func NewContext(keywords []string) *Context {
	if len(keywords) == 0 {
		keywords = append([]string(nil), defaultKeywords...)
	}
	return &Context{Keywords: keywords, Logger: defaultLogger()}
}

// DefaultContext returns a Context with the default keyword set.
func DefaultContext() *Context {
	return NewContext(nil)
}

// Silent returns a copy of c whose Logger discards everything, mirroring
// org.Configuration.Silent().
func (c *Context) Silent() *Context {
	clone := *c
	clone.Logger = slog.New(slog.DiscardHandler)
	return &clone
}

// HasKeyword reports whether kw is a member of c's keyword set.
func (c *Context) HasKeyword(kw string) bool {
	for _, k := range c.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

func defaultLogger() *slog.Logger {
	return slog.New(console.NewHandler(os.Stderr, nil))
}

// contextFile is the shape LoadContext expects from a YAML document,
// modeled on donaldgifford-makefmt's own config-loading pattern.
type contextFile struct {
	Keywords []string `yaml:"keywords"`
}

// LoadContext parses a YAML document of the form:
//
//	keywords: [TODO, DONE, WAITING]
//
// into a Context. Direct construction via NewContext remains the primary
// API; this is a convenience load path for callers that keep their
// keyword set in a config file.
func LoadContext(r io.Reader) (*Context, error) {
	var cfg contextFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	return NewContext(cfg.Keywords), nil
}
