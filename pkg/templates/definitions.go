package templates

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"portfolio-cms/pkg/models"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var definitionFuncs = template.FuncMap{
	"list":    func(f Fields, key string) []Fields { return f.List(key) },
	"strings": func(f Fields, key string) []string { return f.Strings(key) },
	"bool":    func(f Fields, key string) bool { return f.Bool(key) },
	"markdown": func(source string) (template.HTML, error) {
		return Markdown(source)
	},
	"raw": func(s string) template.HTML { return template.HTML(s) },
}

// ParseDefinitions decodes a definitions document. The format is chosen by
// the file extension: .yaml, .yml, .toml or .json.
func ParseDefinitions(name string, data []byte) (models.DefinitionsFile, error) {
	var file models.DefinitionsFile
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".toml":
		err = toml.Unmarshal(data, &file)
	case ".json":
		err = json.Unmarshal(data, &file)
	default:
		return file, fmt.Errorf("templates: unsupported definitions format %q", filepath.Ext(name))
	}
	if err != nil {
		return file, fmt.Errorf("templates: parse %s: %w", name, err)
	}
	return file, nil
}

// LoadDefinitions reads a definitions file and registers every template in
// it. Definitions replace built-in templates of the same type.
func LoadDefinitions(r *Registry, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := ParseDefinitions(path, data)
	if err != nil {
		return nil, err
	}

	var types []string
	for _, def := range file.Templates {
		t, err := FromDefinition(def)
		if err != nil {
			return types, err
		}
		if err := r.Register(t); err != nil {
			return types, err
		}
		types = append(types, t.Type)
	}
	return types, nil
}

// FromDefinition compiles a definition's markup into a Template.
func FromDefinition(def models.TemplateDefinition) (Template, error) {
	typ := normalizeType(def.Type)
	if typ == "" {
		return Template{}, ErrTypeRequired
	}
	if strings.TrimSpace(def.Markup) == "" {
		return Template{}, fmt.Errorf("%w: %s has no markup", ErrRendererRequired, typ)
	}
	tmpl, err := template.New(typ).Funcs(definitionFuncs).Parse(def.Markup)
	if err != nil {
		return Template{}, fmt.Errorf("templates: %s: %w", typ, err)
	}

	schema := Schema{
		Translatable: def.Translatable,
		Shared:       def.Shared,
		Defaults:     def.Defaults,
	}
	if len(def.Arrays) > 0 {
		schema.Arrays = make(map[string]ItemSchema, len(def.Arrays))
		for field, item := range def.Arrays {
			schema.Arrays[field] = ItemSchema{
				Translatable: item.Translatable,
				Shared:       item.Shared,
				Scalar:       item.Scalar,
			}
		}
	}

	return Template{
		Type:   typ,
		Label:  def.Label,
		Icon:   def.Icon,
		Schema: schema,
		Renderer: func(w io.Writer, f Fields) error {
			return tmpl.Execute(w, f)
		},
	}, nil
}
