package systems

import (
	"embed"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-roller/internal/dice"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

// Names of the systems shipped with the roller
const (
	SystemDnD5e      = "dnd5e"
	SystemPathfinder = "pathfinder"
	SystemPercentile = "percentile"
	SystemGeneric    = "generic"
)

//go:embed data/*.yaml
var embeddedDefinitions embed.FS

// Definition is the on-disk form of a rule system
type Definition struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	DefaultRoll string             `yaml:"default_roll"`
	Rules       string             `yaml:"rules"`
	Skills      []*SkillDefinition `yaml:"skills"`
}

// Registry maps system names to their GameSystem. It is built once at
// startup and never mutated afterwards.
type Registry struct {
	systems map[string]GameSystem
}

// NewRegistry creates a registry from the given systems
func NewRegistry(systems ...GameSystem) (*Registry, error) {
	r := &Registry{systems: make(map[string]GameSystem, len(systems))}
	for _, system := range systems {
		if system == nil {
			return nil, errors.InvalidArgument("system is required")
		}
		key := FoldName(system.Name())
		if _, exists := r.systems[key]; exists {
			return nil, errors.AlreadyExistsf("system %q is registered twice", system.Name())
		}
		r.systems[key] = system
	}
	return r, nil
}

// LoadRegistry builds a registry from the embedded system definitions
func LoadRegistry(evaluator *dice.Evaluator) (*Registry, error) {
	return LoadRegistryFromFS(embeddedDefinitions, evaluator)
}

// LoadRegistryFromFS builds a registry from every data/*.yaml file in fsys
func LoadRegistryFromFS(fsys fs.FS, evaluator *dice.Evaluator) (*Registry, error) {
	paths, err := fs.Glob(fsys, "data/*.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list system definitions")
	}
	if len(paths) == 0 {
		return nil, errors.NotFound("no system definitions found")
	}
	sort.Strings(paths)

	systems := make([]GameSystem, 0, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}

		system, err := ParseDefinition(data, evaluator)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", path).WithMeta("path", path)
		}
		systems = append(systems, system)
	}

	return NewRegistry(systems...)
}

// ParseDefinition decodes one YAML definition into a System
func ParseDefinition(data []byte, evaluator *dice.Evaluator) (*System, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid system definition")
	}

	rules, err := RulesByName(def.Rules)
	if err != nil {
		return nil, err
	}

	return New(&Config{
		Name:        strings.TrimSpace(def.Name),
		DefaultRoll: def.DefaultRoll,
		Rules:       rules,
		Skills:      def.Skills,
		Evaluator:   evaluator,
	})
}

// Get returns the named system
func (r *Registry) Get(name string) (GameSystem, error) {
	system, ok := r.systems[FoldName(name)]
	if !ok {
		return nil, errors.NotFoundf("game system %q not found", name).
			WithMeta("available", r.Names())
	}
	return system, nil
}

// Names lists the registered system names in alphabetical order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.systems))
	for _, system := range r.systems {
		names = append(names, system.Name())
	}
	sort.Strings(names)
	return names
}

// Replace returns a new registry with system swapped in under its name
func (r *Registry) Replace(system GameSystem) (*Registry, error) {
	if system == nil {
		return nil, errors.InvalidArgument("system is required")
	}
	out := &Registry{systems: make(map[string]GameSystem, len(r.systems)+1)}
	for key, existing := range r.systems {
		out.systems[key] = existing
	}
	out.systems[FoldName(system.Name())] = system
	return out, nil
}
