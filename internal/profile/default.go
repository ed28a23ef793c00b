package profile

const (
	DefaultModerator = "synopsis"
	DefaultToolkit   = "synopsis"
	DefaultObserver  = "langfuse"
)

// Default returns the stock profile for the given provider, processor and
// accelerator. extra is accepted for callers that pass provider-specific
// settings through and is not used yet.
func Default(provider, processor, accelerator string, extra map[string]any) *Profile {
	return &Profile{
		provider:    provider,
		processor:   processor,
		accelerator: accelerator,
		moderator:   DefaultModerator,
		toolkits:    []ToolkitSpec{{Name: DefaultToolkit, Requires: map[string]string{}}},
		observers:   []ObserverSpec{{Name: DefaultObserver}},
	}
}
