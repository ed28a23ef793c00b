package profile

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Document is the plain, serializable form of a Profile.
type Document struct {
	Provider    string         `json:"provider" toml:"provider" yaml:"provider"`
	Processor   string         `json:"processor" toml:"processor" yaml:"processor"`
	Accelerator string         `json:"accelerator" toml:"accelerator" yaml:"accelerator"`
	Moderator   string         `json:"moderator" toml:"moderator" yaml:"moderator"`
	Toolkits    []ToolkitSpec  `json:"toolkits" toml:"toolkits" yaml:"toolkits"`
	Observers   []ObserverSpec `json:"observers" toml:"observers" yaml:"observers"`
}

// Document returns a deep copy of p as a Document. Requires is always
// non-nil and both lists are non-nil.
func (p *Profile) Document() Document {
	return Document{
		Provider:    p.provider,
		Processor:   p.processor,
		Accelerator: p.accelerator,
		Moderator:   p.moderator,
		Toolkits:    p.Toolkits(),
		Observers:   p.Observers(),
	}
}

// FromDocument builds a Profile from d, running the same coercion and
// requirement check as New.
func FromDocument(d Document) (*Profile, error) {
	toolkits := make([]any, len(d.Toolkits))
	for i, t := range d.Toolkits {
		toolkits[i] = t
	}
	observers := make([]any, len(d.Observers))
	for i, o := range d.Observers {
		observers[i] = o
	}
	return New(Params{
		Provider:    d.Provider,
		Processor:   d.Processor,
		Accelerator: d.Accelerator,
		Moderator:   d.Moderator,
		Toolkits:    toolkits,
		Observers:   observers,
	})
}

func (p *Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Document())
}

// UnmarshalYAML decodes the lists element by element so that null items
// reach coercion instead of being dropped by the YAML decoder.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Provider    string `yaml:"provider"`
		Processor   string `yaml:"processor"`
		Accelerator string `yaml:"accelerator"`
		Moderator   string `yaml:"moderator"`
		Toolkits    []any  `yaml:"toolkits"`
		Observers   []any  `yaml:"observers"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	toolkits, err := Toolkits(raw.Toolkits...)
	if err != nil {
		return err
	}
	observers, err := Observers(raw.Observers...)
	if err != nil {
		return err
	}
	*d = Document{
		Provider:    raw.Provider,
		Processor:   raw.Processor,
		Accelerator: raw.Accelerator,
		Moderator:   raw.Moderator,
		Toolkits:    toolkits,
		Observers:   observers,
	}
	return nil
}

// The decoders below let config files list toolkits and observers either as
// bare names or as mappings.

func (t *ToolkitSpec) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return t.UnmarshalTOML(raw)
}

func (t *ToolkitSpec) UnmarshalTOML(data any) error {
	spec, err := ToolkitFrom(data)
	if err != nil {
		return err
	}
	*t = spec
	return nil
}

func (t *ToolkitSpec) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return t.UnmarshalTOML(raw)
}

func (o *ObserverSpec) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return o.UnmarshalTOML(raw)
}

func (o *ObserverSpec) UnmarshalTOML(data any) error {
	spec, err := ObserverFrom(data)
	if err != nil {
		return err
	}
	*o = spec
	return nil
}

func (o *ObserverSpec) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return o.UnmarshalTOML(raw)
}
