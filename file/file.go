package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsphweid/rhythmdex/model"
)

var ErrUnknownFormat = errors.New("unknown page format")

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf tells the page format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

func Decode(r io.Reader, format Format) (*model.Page, error) {
	var page model.Page
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&page); err != nil {
			return nil, fmt.Errorf("decoding json page: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&page); err != nil {
			return nil, fmt.Errorf("decoding yaml page: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	return &page, nil
}

func ReadPage(path string) (*model.Page, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	page, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if page.ID == "" {
		page.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return page, nil
}

// ReadPages reads every path, in order. Pages keep their position as index
// unless they carry one.
func ReadPages(paths []string) ([]*model.Page, error) {
	pages := make([]*model.Page, 0, len(paths))
	for i, path := range paths {
		page, err := ReadPage(path)
		if err != nil {
			return nil, err
		}
		if page.Index == 0 {
			page.Index = i
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// PagePaths lists the page files of dir, sorted by name.
func PagePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := FormatOf(e.Name()); err == nil {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// WritePage writes page as indented JSON.
func WritePage(w io.Writer, page *model.Page) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}
