// Package profile models the validated configuration of one goose session:
// which provider, processor, accelerator and moderator to use, and which
// toolkits and observers to attach.
package profile

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ToolkitSpec configures a toolkit. Requires maps an arbitrary key to the
// name of another toolkit this one depends on.
type ToolkitSpec struct {
	Name     string            `json:"name" toml:"name" yaml:"name"`
	Requires map[string]string `json:"requires" toml:"requires" yaml:"requires"`
}

func (t ToolkitSpec) clone() ToolkitSpec {
	reqs := maps.Clone(t.Requires)
	if reqs == nil {
		reqs = map[string]string{}
	}
	return ToolkitSpec{Name: t.Name, Requires: reqs}
}

// Equal reports whether both specs share a name and the same requirements.
// A nil and an empty Requires are equal.
func (t ToolkitSpec) Equal(o ToolkitSpec) bool {
	return t.Name == o.Name && maps.Equal(t.Requires, o.Requires)
}

// ObserverSpec configures a telemetry observer.
type ObserverSpec struct {
	Name string `json:"name" toml:"name" yaml:"name"`
}

// Params are the inputs to New. Toolkits and Observers accept bare names,
// spec values or {name, requires} mappings.
type Params struct {
	Provider    string
	Processor   string
	Accelerator string
	Moderator   string
	Toolkits    []any
	Observers   []any
}

// Profile is the configuration for a run of goose. It cannot be changed
// after New returns it.
type Profile struct {
	provider    string
	processor   string
	accelerator string
	moderator   string
	toolkits    []ToolkitSpec
	observers   []ObserverSpec
}

// New coerces the toolkit and observer lists and checks that every toolkit
// requirement names a toolkit present in the profile.
func New(p Params) (*Profile, error) {
	toolkits, err := Toolkits(p.Toolkits...)
	if err != nil {
		return nil, err
	}
	observers, err := Observers(p.Observers...)
	if err != nil {
		return nil, err
	}
	if err := CheckToolkitRequirements(toolkits); err != nil {
		return nil, err
	}
	return &Profile{
		provider:    p.Provider,
		processor:   p.Processor,
		accelerator: p.Accelerator,
		moderator:   p.Moderator,
		toolkits:    toolkits,
		observers:   observers,
	}, nil
}

// CheckToolkitRequirements returns an *UnsatisfiedRequirementError for the
// first requirement whose name is not among the given toolkits. Requirements
// of one toolkit are visited in key order.
func CheckToolkitRequirements(toolkits []ToolkitSpec) error {
	installed := make(map[string]struct{}, len(toolkits))
	for _, t := range toolkits {
		installed[t.Name] = struct{}{}
	}
	for _, t := range toolkits {
		for _, key := range slices.Sorted(maps.Keys(t.Requires)) {
			req := t.Requires[key]
			if _, ok := installed[req]; !ok {
				return &UnsatisfiedRequirementError{Toolkit: t.Name, Requirement: req}
			}
		}
	}
	return nil
}

func (p *Profile) Provider() string    { return p.provider }
func (p *Profile) Processor() string   { return p.processor }
func (p *Profile) Accelerator() string { return p.accelerator }
func (p *Profile) Moderator() string   { return p.moderator }

// Toolkits returns a copy of the toolkit specs in configured order.
func (p *Profile) Toolkits() []ToolkitSpec {
	out := make([]ToolkitSpec, len(p.toolkits))
	for i, t := range p.toolkits {
		out[i] = t.clone()
	}
	return out
}

// Observers returns a copy of the observer specs in configured order.
func (p *Profile) Observers() []ObserverSpec {
	return slices.Clone(p.observers)
}

func (p *Profile) ToolkitNames() []string {
	names := make([]string, len(p.toolkits))
	for i, t := range p.toolkits {
		names[i] = t.Name
	}
	return names
}

func (p *Profile) ObserverNames() []string {
	names := make([]string, len(p.observers))
	for i, o := range p.observers {
		names[i] = o.Name
	}
	return names
}

// Info is the one-line summary shown to users.
func (p *Profile) Info() string {
	return fmt.Sprintf("provider:%s, processor:%s toolkits: %s observers: %s",
		p.provider,
		p.processor,
		strings.Join(p.ToolkitNames(), ", "),
		strings.Join(p.ObserverNames(), ", "),
	)
}

func (p *Profile) String() string { return p.Info() }

// Equal compares every field. Toolkit and observer order matters.
func (p *Profile) Equal(o *Profile) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.provider == o.provider &&
		p.processor == o.processor &&
		p.accelerator == o.accelerator &&
		p.moderator == o.moderator &&
		slices.EqualFunc(p.toolkits, o.toolkits, ToolkitSpec.Equal) &&
		slices.Equal(p.observers, o.observers)
}
