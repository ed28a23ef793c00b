package profile

import (
	"fmt"
	"maps"
)

const (
	fieldToolkits  = "toolkits"
	fieldObservers = "observers"
)

// ToolkitFrom coerces a bare name, a ToolkitSpec or a {name, requires}
// mapping into a ToolkitSpec.
func ToolkitFrom(v any) (ToolkitSpec, error) {
	switch t := v.(type) {
	case string:
		return ToolkitSpec{Name: t, Requires: map[string]string{}}, nil
	case ToolkitSpec:
		return t.clone(), nil
	case *ToolkitSpec:
		if t == nil {
			return ToolkitSpec{}, malformed(fieldToolkits, v, "nil ToolkitSpec")
		}
		return t.clone(), nil
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return toolkitFromMap(m, v)
	case map[string]any:
		return toolkitFromMap(t, v)
	default:
		return ToolkitSpec{}, malformed(fieldToolkits, v, "expected a name, a mapping or a ToolkitSpec")
	}
}

func toolkitFromMap(m map[string]any, orig any) (ToolkitSpec, error) {
	name, err := nameFromMap(fieldToolkits, m, orig)
	if err != nil {
		return ToolkitSpec{}, err
	}
	spec := ToolkitSpec{Name: name, Requires: map[string]string{}}
	for k, raw := range m {
		switch k {
		case "name":
		case "requires":
			reqs, err := requiresFrom(raw, orig)
			if err != nil {
				return ToolkitSpec{}, err
			}
			spec.Requires = reqs
		default:
			return ToolkitSpec{}, malformed(fieldToolkits, orig, fmt.Sprintf("unknown key %q", k))
		}
	}
	return spec, nil
}

func requiresFrom(raw any, orig any) (map[string]string, error) {
	switch r := raw.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		return maps.Clone(r), nil
	case map[string]any:
		out := make(map[string]string, len(r))
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				return nil, malformed(fieldToolkits, orig, fmt.Sprintf("requirement %q is %T, not a toolkit name", k, v))
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, malformed(fieldToolkits, orig, fmt.Sprintf("requires is %T, not a mapping", raw))
	}
}

// ObserverFrom coerces a bare name, an ObserverSpec or a {name} mapping into
// an ObserverSpec.
func ObserverFrom(v any) (ObserverSpec, error) {
	switch o := v.(type) {
	case string:
		return ObserverSpec{Name: o}, nil
	case ObserverSpec:
		return o, nil
	case *ObserverSpec:
		if o == nil {
			return ObserverSpec{}, malformed(fieldObservers, v, "nil ObserverSpec")
		}
		return *o, nil
	case map[string]string:
		m := make(map[string]any, len(o))
		for k, s := range o {
			m[k] = s
		}
		return observerFromMap(m, v)
	case map[string]any:
		return observerFromMap(o, v)
	default:
		return ObserverSpec{}, malformed(fieldObservers, v, "expected a name, a mapping or an ObserverSpec")
	}
}

func observerFromMap(m map[string]any, orig any) (ObserverSpec, error) {
	name, err := nameFromMap(fieldObservers, m, orig)
	if err != nil {
		return ObserverSpec{}, err
	}
	for k := range m {
		if k != "name" {
			return ObserverSpec{}, malformed(fieldObservers, orig, fmt.Sprintf("unknown key %q", k))
		}
	}
	return ObserverSpec{Name: name}, nil
}

func nameFromMap(field string, m map[string]any, orig any) (string, error) {
	raw, ok := m["name"]
	if !ok {
		return "", malformed(field, orig, "missing name")
	}
	name, ok := raw.(string)
	if !ok {
		return "", malformed(field, orig, fmt.Sprintf("name is %T, not a string", raw))
	}
	return name, nil
}

// Toolkits coerces each element with ToolkitFrom, keeping input order.
func Toolkits(vs ...any) ([]ToolkitSpec, error) {
	out := make([]ToolkitSpec, 0, len(vs))
	for i, v := range vs {
		spec, err := ToolkitFrom(v)
		if err != nil {
			return nil, atIndex(err, i)
		}
		out = append(out, spec)
	}
	return out, nil
}

// Observers coerces each element with ObserverFrom, keeping input order.
func Observers(vs ...any) ([]ObserverSpec, error) {
	out := make([]ObserverSpec, 0, len(vs))
	for i, v := range vs {
		spec, err := ObserverFrom(v)
		if err != nil {
			return nil, atIndex(err, i)
		}
		out = append(out, spec)
	}
	return out, nil
}

func malformed(field string, v any, reason string) *MalformedElementError {
	return &MalformedElementError{Field: field, Index: -1, Value: v, Reason: reason}
}

func atIndex(err error, i int) error {
	if me, ok := err.(*MalformedElementError); ok {
		me.Index = i
	}
	return err
}
