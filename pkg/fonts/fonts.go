// Package fonts pins renderer font resolution to a bundled font set.
//
// The fonts ship inside the binary. Each render writes them into the per-run
// directory and points the renderer at a generated fonts.conf through
// FONTCONFIG_FILE. That file lists the bundled directory first, then any
// configured extras, and keeps its cache in the run directory, so host fonts
// never leak into the committed image and concurrent runs never share a
// fontconfig cache.
package fonts

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"os"
	"path/filepath"
	"text/template"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// EnvConfigFile is the environment variable fontconfig reads its config from.
const EnvConfigFile = "FONTCONFIG_FILE"

// ConfigFileName is the generated file's name inside the run directory.
const ConfigFileName = "fonts.conf"

// BundledDir is the run-directory subdirectory holding the bundled fonts.
const BundledDir = "fonts"

// FontFamily is the family name of the bundled proportional faces.
const FontFamily = "Go"

// Face is one bundled font file.
type Face struct {
	File string
	TTF  []byte
}

// Bundled returns the embedded faces.
func Bundled() []Face {
	return []Face{
		{File: "Go-Regular.ttf", TTF: goregular.TTF},
		{File: "Go-Bold.ttf", TTF: gobold.TTF},
		{File: "Go-Italic.ttf", TTF: goitalic.TTF},
		{File: "Go-Mono.ttf", TTF: gomono.TTF},
	}
}

//go:embed fonts.conf.tmpl
var confTemplate string

var tmpl = template.Must(template.New("fonts.conf").Funcs(template.FuncMap{
	"xml": escape,
}).Parse(confTemplate))

func escape(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Config describes a generated fontconfig file.
type Config struct {
	Dirs     []string // font directories, bundled first
	CacheDir string   // fontconfig cache location
}

// Render returns the fonts.conf contents for c.
func Render(c Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteBundled writes the embedded faces into dir, creating it.
func WriteBundled(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, f := range Bundled() {
		if err := os.WriteFile(filepath.Join(dir, f.File), f.TTF, 0644); err != nil {
			return err
		}
	}
	return nil
}

// WriteConfig writes the bundled fonts into runDir/fonts and fonts.conf
// into runDir, with its cache under runDir/fontconfig. The bundled
// directory is always listed first; extra directories follow in order.
// It returns the config file's path.
func WriteConfig(runDir string, extra []string) (string, error) {
	bundled := filepath.Join(runDir, BundledDir)
	if err := WriteBundled(bundled); err != nil {
		return "", err
	}
	dirs := append([]string{bundled}, extra...)

	data, err := Render(Config{
		Dirs:     dirs,
		CacheDir: filepath.Join(runDir, "fontconfig"),
	})
	if err != nil {
		return "", err
	}
	path := filepath.Join(runDir, ConfigFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
