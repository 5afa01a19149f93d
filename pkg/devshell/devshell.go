// Package devshell holds the development shell's command menu and package
// list.
//
// The menu is a static table: command name to shell invocation, help text and
// category. It is parsed once from an embedded TOML document, may be extended
// by the repository's configuration, and is handed out by value so callers
// cannot change the shared copy.
package devshell

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"slices"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/google/shlex"

	"github.com/matzehuels/wsgraph/internal/proc"
	"github.com/matzehuels/wsgraph/pkg/errors"
)

// Command is one menu entry.
type Command struct {
	Name     string `toml:"name" json:"name"`
	Command  string `toml:"command" json:"command"`
	Help     string `toml:"help" json:"help"`
	Category string `toml:"category" json:"category"`
}

// Menu is the dev-shell command table plus the packages the shell provides.
type Menu struct {
	Commands []Command `toml:"commands" json:"commands"`
	Packages []string  `toml:"packages" json:"packages"`
}

//go:embed menu.toml
var defaultMenu []byte

var loadDefault = sync.OnceValues(func() (Menu, error) {
	return Parse(defaultMenu)
})

// Default returns a copy of the built-in menu.
func Default() Menu {
	m, err := loadDefault()
	if err != nil {
		panic("devshell: embedded menu: " + err.Error())
	}
	return m.Clone()
}

// Parse decodes and validates a TOML menu document.
func Parse(data []byte) (Menu, error) {
	var m Menu
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m)
	if err != nil {
		return Menu{}, errors.Wrap(errors.ErrCodeConfiguration, err, "parse menu")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Menu{}, errors.New(errors.ErrCodeConfiguration, "unknown menu key %q", undecoded[0].String())
	}
	if err := m.Validate(); err != nil {
		return Menu{}, err
	}
	return m, nil
}

// Validate checks that every command has a unique name and a non-empty
// invocation.
func (m Menu) Validate() error {
	seen := make(map[string]bool, len(m.Commands))
	for i, c := range m.Commands {
		if c.Name == "" {
			return errors.New(errors.ErrCodeConfiguration, "menu command %d has no name", i)
		}
		if seen[c.Name] {
			return errors.New(errors.ErrCodeConfiguration, "duplicate menu command %q", c.Name)
		}
		seen[c.Name] = true
		if _, err := c.Argv(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy.
func (m Menu) Clone() Menu {
	return Menu{
		Commands: slices.Clone(m.Commands),
		Packages: slices.Clone(m.Packages),
	}
}

// Lookup finds a command by name.
func (m Menu) Lookup(name string) (Command, bool) {
	i := slices.IndexFunc(m.Commands, func(c Command) bool { return c.Name == name })
	if i < 0 {
		return Command{}, false
	}
	return m.Commands[i], true
}

// Categories returns the command categories in order of first appearance.
func (m Menu) Categories() []string {
	var cats []string
	for _, c := range m.Commands {
		if !slices.Contains(cats, c.Category) {
			cats = append(cats, c.Category)
		}
	}
	return cats
}

// InCategory returns the commands of one category in menu order.
func (m Menu) InCategory(category string) []Command {
	var out []Command
	for _, c := range m.Commands {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// Merge returns m extended by override: commands with a known name are
// replaced in place, new ones are appended, and a non-empty package list
// replaces the base list.
func (m Menu) Merge(override Menu) Menu {
	out := m.Clone()
	for _, c := range override.Commands {
		if i := slices.IndexFunc(out.Commands, func(e Command) bool { return e.Name == c.Name }); i >= 0 {
			out.Commands[i] = c
			continue
		}
		out.Commands = append(out.Commands, c)
	}
	if len(override.Packages) > 0 {
		out.Packages = slices.Clone(override.Packages)
	}
	return out
}

// Argv splits the command line using shell quoting rules.
func (c Command) Argv() ([]string, error) {
	argv, err := shlex.Split(c.Command)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "menu command %q", c.Name)
	}
	if len(argv) == 0 {
		return nil, errors.New(errors.ErrCodeConfiguration, "menu command %q is empty", c.Name)
	}
	return argv, nil
}

// Stdio connects a running command to the terminal.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes c in dir. Output is streamed to stdio as it is produced.
func Run(ctx context.Context, c Command, dir string, stdio Stdio) error {
	argv, err := c.Argv()
	if err != nil {
		return err
	}
	res, err := proc.Run(ctx, proc.Cmd{
		Argv:   argv,
		Dir:    dir,
		Stdin:  stdio.In,
		Stdout: stdio.Out,
		Stderr: stdio.Err,
	})
	if ctx.Err() != nil {
		return errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "%s interrupted", c.Name)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeBuild, err, "%s exited with status %d", c.Name, res.ExitCode)
	}
	return nil
}
