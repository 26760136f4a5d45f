// Package projectfile reads project documents, sweep definitions and
// weather profiles from disk.
package projectfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
)

// Keys read by the loader and removed from the project config
const (
	keyName    = "name"
	keyWeather = "weather"
)

// Document is one project from a YAML file
type Document struct {
	Name string
	// Weather is the weather CSV path resolved against the document directory
	Weather string
	Config  config.Value
}

// LoadDocument reads the first project of a YAML file
func LoadDocument(path string) (*Document, error) {
	docs, err := LoadDocuments(path)
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// LoadDocuments reads every project of a multi-document YAML file
func LoadDocuments(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project file: %w", err)
	}
	defer f.Close()

	docs, err := ParseDocuments(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i, d := range docs {
		if d.Name != "" {
			continue
		}
		d.Name = base
		if len(docs) > 1 {
			d.Name = fmt.Sprintf("%s-%d", base, i+1)
		}
	}
	return docs, nil
}

// ParseDocuments decodes YAML documents from r. Relative weather paths are
// joined to dir.
func ParseDocuments(r io.Reader, dir string) ([]*Document, error) {
	dec := yaml.NewDecoder(r)
	var docs []*Document
	for i := 0; ; i++ {
		var raw map[string]interface{}
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		if raw == nil {
			continue
		}
		doc, err := newDocument(raw, dir)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, errors.New("no project documents")
	}
	return docs, nil
}

func newDocument(raw map[string]interface{}, dir string) (*Document, error) {
	doc := &Document{}
	if v, ok := raw[keyName]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", keyName)
		}
		doc.Name = name
		delete(raw, keyName)
	}
	if v, ok := raw[keyWeather]; ok {
		path, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a file path", keyWeather)
		}
		if path != "" && !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		doc.Weather = path
		delete(raw, keyWeather)
	}

	cfg, err := config.FromAny(raw)
	if err != nil {
		return nil, err
	}
	doc.Config = cfg
	return doc, nil
}

// WriteYAML writes v as YAML with sorted keys
func WriteYAML(w io.Writer, v config.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v.ToAny()); err != nil {
		return err
	}
	return enc.Close()
}
