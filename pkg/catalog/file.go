package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ledwall/pkg/errors"
)

// Format is a catalog file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForPath picks the encoding from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported catalog file %q (want .toml or .json)", path)
	}
}

// Decode reads a catalog in the given format. Entry IDs are taken from the
// map keys. The result is not merged with the defaults.
func Decode(r io.Reader, format Format) (Catalog, error) {
	c := New()
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
			return Catalog{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode catalog")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&c); err != nil {
			return Catalog{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode catalog")
		}
	default:
		return Catalog{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported catalog format %q", format)
	}
	if c.Modules == nil {
		c.Modules = map[string]Module{}
	}
	if c.Processors == nil {
		c.Processors = map[string]Processor{}
	}
	for id, m := range c.Modules {
		m.ID = id
		if err := ValidateModule(m); err != nil {
			return Catalog{}, err
		}
		c.Modules[id] = m
	}
	for id, p := range c.Processors {
		p.ID = id
		if err := ValidateProcessor(p); err != nil {
			return Catalog{}, err
		}
		c.Processors[id] = p
	}
	return c, nil
}

// Encode writes the catalog in the given format.
func Encode(w io.Writer, c Catalog, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(c)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported catalog format %q", format)
	}
}

// LoadFile reads a catalog file, choosing the format from its extension.
func LoadFile(path string) (Catalog, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Catalog{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Catalog{}, errors.Wrap(errors.ErrCodeNotFound, err, "catalog file %s", path)
		}
		return Catalog{}, errors.Wrap(errors.ErrCodeStorage, err, "open catalog")
	}
	defer f.Close()
	return Decode(f, format)
}

// WriteFile writes the catalog to path, choosing the format from its extension.
func WriteFile(path string, c Catalog) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, c, format); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "create catalog dir")
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write catalog")
	}
	return nil
}

// Load returns the defaults with the entries of path layered on top. An empty
// path returns the defaults unchanged.
func Load(path string) (Catalog, error) {
	base := Defaults()
	if path == "" {
		return base, nil
	}
	user, err := LoadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	return base.Merge(user), nil
}
