package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PreservesToolkitOrder(t *testing.T) {
	p, err := New(Params{
		Provider:    "openai",
		Processor:   "gpt-4o",
		Accelerator: "gpt-4o-mini",
		Moderator:   "truncate",
		Toolkits: []any{
			"developer",
			ToolkitSpec{Name: "github", Requires: map[string]string{"dev": "developer"}},
			map[string]any{"name": "jira", "requires": map[string]any{"gh": "github", "dev": "developer"}},
		},
		Observers: []any{"langfuse"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"developer", "github", "jira"}, p.ToolkitNames())
	assert.Equal(t, map[string]string{"gh": "github", "dev": "developer"}, p.Toolkits()[2].Requires)
	assert.Equal(t, "truncate", p.Moderator())
	assert.Equal(t, "gpt-4o-mini", p.Accelerator())
}

func TestNew_UnsatisfiedRequirement(t *testing.T) {
	tests := []struct {
		name        string
		toolkits    []any
		toolkit     string
		requirement string
	}{
		{
			name:        "missing_dependency",
			toolkits:    []any{ToolkitSpec{Name: "github", Requires: map[string]string{"dev": "developer"}}},
			toolkit:     "github",
			requirement: "developer",
		},
		{
			name: "second_toolkit_missing",
			toolkits: []any{
				"developer",
				map[string]any{"name": "jira", "requires": map[string]any{"a": "developer", "b": "browser"}},
			},
			toolkit:     "jira",
			requirement: "browser",
		},
		{
			name: "first_missing_key_in_order",
			toolkits: []any{
				ToolkitSpec{Name: "repo", Requires: map[string]string{"z": "zeta", "a": "alpha"}},
			},
			toolkit:     "repo",
			requirement: "alpha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(Params{Provider: "openai", Toolkits: tt.toolkits})
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, ErrUnsatisfiedRequirement))

			var ue *UnsatisfiedRequirementError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.toolkit, ue.Toolkit)
			assert.Equal(t, tt.requirement, ue.Requirement)
			assert.Contains(t, err.Error(), tt.toolkit)
			assert.Contains(t, err.Error(), tt.requirement)
		})
	}
}

func TestNew_SelfRequirementIsSatisfied(t *testing.T) {
	p, err := New(Params{
		Toolkits: []any{ToolkitSpec{Name: "x", Requires: map[string]string{"self": "x"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, p.ToolkitNames())
}

func TestNew_DuplicateNamesAllowed(t *testing.T) {
	p, err := New(Params{Toolkits: []any{"developer", "developer"}})
	require.NoError(t, err)
	assert.Len(t, p.Toolkits(), 2)
}

func TestNew_MultiHopChain(t *testing.T) {
	_, err := New(Params{Toolkits: []any{
		ToolkitSpec{Name: "a", Requires: map[string]string{"b": "b"}},
		ToolkitSpec{Name: "b", Requires: map[string]string{"c": "c"}},
	}})
	var ue *UnsatisfiedRequirementError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "b", ue.Toolkit)
	assert.Equal(t, "c", ue.Requirement)
}

func TestNew_ObserversNotValidated(t *testing.T) {
	p, err := New(Params{Observers: []any{"langfuse", "langfuse", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"langfuse", "langfuse", ""}, p.ObserverNames())
}

func TestNew_EmptyLists(t *testing.T) {
	p, err := New(Params{Provider: "anthropic"})
	require.NoError(t, err)
	assert.NotNil(t, p.Toolkits())
	assert.Empty(t, p.Toolkits())
	assert.Empty(t, p.Observers())
}

func TestNew_MalformedElement(t *testing.T) {
	_, err := New(Params{Toolkits: []any{"developer", 42}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedElement))

	var me *MalformedElementError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "toolkits", me.Field)
	assert.Equal(t, 1, me.Index)

	_, err = New(Params{Observers: []any{[]string{"langfuse"}}})
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "observers", me.Field)
	assert.Equal(t, 0, me.Index)
}

func TestNew_CoercionIdempotent(t *testing.T) {
	fromNames, err := New(Params{Provider: "openai", Toolkits: []any{"a", "b"}, Observers: []any{"langfuse"}})
	require.NoError(t, err)
	fromSpecs, err := New(Params{
		Provider:  "openai",
		Toolkits:  []any{ToolkitSpec{Name: "a"}, &ToolkitSpec{Name: "b"}},
		Observers: []any{ObserverSpec{Name: "langfuse"}},
	})
	require.NoError(t, err)

	assert.True(t, fromNames.Equal(fromSpecs))
}

func TestProfile_Immutable(t *testing.T) {
	reqs := map[string]string{"dev": "developer"}
	p, err := New(Params{Toolkits: []any{"developer", ToolkitSpec{Name: "github", Requires: reqs}}})
	require.NoError(t, err)

	reqs["other"] = "missing"
	toolkits := p.Toolkits()
	toolkits[1].Requires["more"] = "missing"
	toolkits[0].Name = "changed"

	assert.Equal(t, map[string]string{"dev": "developer"}, p.Toolkits()[1].Requires)
	assert.Equal(t, "developer", p.Toolkits()[0].Name)
}

func TestProfile_Info(t *testing.T) {
	p, err := New(Params{
		Provider:    "openai",
		Processor:   "cpu",
		Accelerator: "none",
		Moderator:   "synopsis",
		Toolkits:    []any{"synopsis"},
		Observers:   []any{"langfuse"},
	})
	require.NoError(t, err)
	assert.Equal(t, "provider:openai, processor:cpu toolkits: synopsis observers: langfuse", p.Info())

	p, err = New(Params{Provider: "openai", Processor: "cpu", Toolkits: []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "provider:openai, processor:cpu toolkits: a, b observers: ", p.Info())
	assert.Equal(t, p.Info(), p.String())
}

func TestDefault(t *testing.T) {
	p := Default("openai", "cpu", "gpu", nil)
	withExtra := Default("openai", "cpu", "gpu", map[string]any{"model": "gpt-4o", "temperature": 0.2})

	assert.Equal(t, "openai", p.Provider())
	assert.Equal(t, "cpu", p.Processor())
	assert.Equal(t, "gpu", p.Accelerator())
	assert.Equal(t, "synopsis", p.Moderator())
	require.Len(t, p.Toolkits(), 1)
	assert.True(t, p.Toolkits()[0].Equal(ToolkitSpec{Name: "synopsis"}))
	assert.Equal(t, []ObserverSpec{{Name: "langfuse"}}, p.Observers())
	assert.True(t, p.Equal(withExtra))
	assert.NoError(t, CheckToolkitRequirements(p.Toolkits()))
}

func TestProfile_Equal(t *testing.T) {
	a := Default("openai", "cpu", "gpu", nil)
	b := Default("openai", "cpu", "cuda", nil)

	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Profile)(nil).Equal(nil))
}
