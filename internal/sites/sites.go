// Package sites is the bundled "where to buy" directory.
//
// The list ships embedded as JSON; a user file (JSON or YAML) can replace it.
// Nothing here is written back: the directory is read-only.
package sites

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/equipt/internal/model"
)

//go:embed sites.json
var bundled []byte

// Default returns the bundled list.
func Default() ([]model.Site, error) {
	return decodeJSON(bundled)
}

// Load returns the list at path, or the bundled one when path is empty.
func Load(path string) ([]model.Site, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads a site list; .yaml and .yml are YAML, anything else JSON.
func LoadFile(path string) ([]model.Site, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("sites file %s: %w", path, err)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(b)
	}
	return decodeJSON(b)
}

func decodeJSON(b []byte) ([]model.Site, error) {
	var list []model.Site
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return list, validate(list)
}

func decodeYAML(b []byte) ([]model.Site, error) {
	var list []model.Site
	if err := yaml.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return list, validate(list)
}

func validate(list []model.Site) error {
	for i, s := range list {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("site %d: empty title", i+1)
		}
		u, err := url.Parse(s.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("site %d (%s): invalid url %q", i+1, s.Title, s.URL)
		}
	}
	return nil
}
