package models

// DefinitionsFile is the on-disk format for additional section templates.
// It can be written as YAML, TOML or JSON.
type DefinitionsFile struct {
	Templates []TemplateDefinition `yaml:"templates" toml:"templates" json:"templates"`
}

type TemplateDefinition struct {
	Type         string                    `yaml:"type" toml:"type" json:"type"`
	Label        string                    `yaml:"label" toml:"label" json:"label"`
	Icon         string                    `yaml:"icon" toml:"icon" json:"icon"`
	Translatable []string                  `yaml:"translatable" toml:"translatable" json:"translatable"`
	Shared       []string                  `yaml:"shared" toml:"shared" json:"shared"`
	Arrays       map[string]ItemDefinition `yaml:"arrays" toml:"arrays" json:"arrays"`
	Defaults     map[string]string         `yaml:"defaults,omitempty" toml:"defaults,omitempty" json:"defaults,omitempty"`
	Markup       string                    `yaml:"markup" toml:"markup" json:"markup"`
}

type ItemDefinition struct {
	Translatable []string `yaml:"translatable" toml:"translatable" json:"translatable"`
	Shared       []string `yaml:"shared" toml:"shared" json:"shared"`
	Scalar       bool     `yaml:"scalar" toml:"scalar" json:"scalar"`
}
