package filterchain

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Definitions is the declarative form of a Selector.
type Definitions struct {
	DefaultPolicy string            `yaml:"default_policy" validate:"omitempty,oneof=pass deny"`
	Chains        []ChainDefinition `yaml:"chains"         validate:"required,min=1,dive"`
}

// ChainDefinition describes one chain. Its filters are resolved by name.
type ChainDefinition struct {
	Name    string          `yaml:"name"    validate:"required"`
	Match   MatchDefinition `yaml:"match"`
	Filters []string        `yaml:"filters" validate:"dive,required"`
}

// MatchDefinition criteria are AND-ed; multiple paths are OR-ed. An empty
// block matches every request.
type MatchDefinition struct {
	Paths   []string          `yaml:"paths"   validate:"dive,startswith=/"`
	Methods []string          `yaml:"methods" validate:"dive,required"`
	Regex   string            `yaml:"regex"`
	Header  *HeaderDefinition `yaml:"header"`
}

// HeaderDefinition matches a request header; an empty value only requires presence.
type HeaderDefinition struct {
	Name  string `yaml:"name"  validate:"required"`
	Value string `yaml:"value"`
}

// LoadDefinitions decodes and validates a YAML definitions document.
func LoadDefinitions(r io.Reader) (*Definitions, error) {
	var defs Definitions
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}
	return &defs, nil
}

// LoadDefinitionsFile reads definitions from path.
func LoadDefinitionsFile(path string) (*Definitions, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	defer f.Close()
	return LoadDefinitions(f)
}

// Validate checks struct constraints and chain name uniqueness.
func (d *Definitions) Validate() error {
	if err := validator.New().Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	seen := make(map[string]struct{}, len(d.Chains))
	for _, c := range d.Chains {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate chain name %q", ErrInvalidDefinition, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Matcher builds the RequestMatcher for m.
func (m MatchDefinition) Matcher() (RequestMatcher, error) {
	var parts []RequestMatcher

	if len(m.Paths) > 0 {
		paths := make([]RequestMatcher, 0, len(m.Paths))
		for _, p := range m.Paths {
			pm, err := PathMatcher(p)
			if err != nil {
				return nil, err
			}
			paths = append(paths, pm)
		}
		parts = append(parts, Or(paths...))
	}
	if len(m.Methods) > 0 {
		parts = append(parts, MethodMatcher(m.Methods...))
	}
	if m.Regex != "" {
		rm, err := RegexMatcher(m.Regex)
		if err != nil {
			return nil, err
		}
		parts = append(parts, rm)
	}
	if m.Header != nil {
		parts = append(parts, HeaderMatcher(m.Header.Name, m.Header.Value))
	}

	switch len(parts) {
	case 0:
		return AnyRequest(), nil
	case 1:
		return parts[0], nil
	default:
		return And(parts...), nil
	}
}

// Registry maps filter names used in definitions to gin handlers.
type Registry struct {
	filters map[string]gin.HandlerFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{filters: make(map[string]gin.HandlerFunc)}
}

// Register adds a named filter.
func (r *Registry) Register(name string, filter gin.HandlerFunc) error {
	if name == "" || filter == nil {
		return fmt.Errorf("%w: filter needs a name and a handler", ErrInvalidDefinition)
	}
	if _, exists := r.filters[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFilter, name)
	}
	r.filters[name] = filter
	return nil
}

// Lookup returns the filter registered under name.
func (r *Registry) Lookup(name string) (gin.HandlerFunc, bool) {
	f, ok := r.filters[name]
	return f, ok
}

// Names returns registered filter names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build turns validated definitions into a Selector and its no-match policy.
func Build(defs *Definitions, registry *Registry) (*Selector, NoMatchPolicy, error) {
	if defs == nil {
		return nil, PassThrough, fmt.Errorf("%w: no definitions", ErrInvalidDefinition)
	}
	if err := defs.Validate(); err != nil {
		return nil, PassThrough, err
	}

	if registry == nil {
		registry = NewRegistry()
	}

	policy, err := ParsePolicy(defs.DefaultPolicy)
	if err != nil {
		return nil, PassThrough, err
	}

	chains := make([]*Chain, 0, len(defs.Chains))
	for _, def := range defs.Chains {
		matcher, err := def.Match.Matcher()
		if err != nil {
			return nil, PassThrough, fmt.Errorf("chain %q: %w", def.Name, err)
		}

		filters := make([]gin.HandlerFunc, 0, len(def.Filters))
		for _, name := range def.Filters {
			f, ok := registry.Lookup(name)
			if !ok {
				return nil, PassThrough, fmt.Errorf("%w: %q in chain %q", ErrUnknownFilter, name, def.Name)
			}
			filters = append(filters, f)
		}

		chain, err := NewChain(def.Name, matcher, filters...)
		if err != nil {
			return nil, PassThrough, err
		}
		chains = append(chains, chain)
		log.Printf("[FilterChain] Registered chain=%s filters=%v", def.Name, def.Filters)
	}

	log.Printf("[FilterChain] %d chain(s) loaded, default policy: %s", len(chains), policy)
	return NewSelector(chains...), policy, nil
}
