package data

import (
	"fmt"
	"os"
	"sort"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"gopkg.in/yaml.v3"
)

// ActorClass is a named template of component defaults.
type ActorClass struct {
	Name       string    `yaml:"name"`
	Components ecs.State `yaml:"components"`
}

// ClassTable provides lookup of actor classes by name.
type ClassTable struct {
	classes map[string]*ActorClass
}

// LoadActorClasses loads actor_classes.yaml.
func LoadActorClasses(path string) (*ClassTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actor classes: %w", err)
	}
	return ParseActorClasses(raw)
}

// ParseActorClasses builds a table from YAML bytes.
func ParseActorClasses(raw []byte) (*ClassTable, error) {
	var entries []ActorClass
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse actor classes: %w", err)
	}
	t := &ClassTable{classes: make(map[string]*ActorClass, len(entries))}
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("actor class #%d has no name", i)
		}
		if _, dup := t.classes[e.Name]; dup {
			return nil, fmt.Errorf("duplicate actor class %q", e.Name)
		}
		if e.Components == nil {
			e.Components = ecs.State{}
		}
		t.classes[e.Name] = e
	}
	return t, nil
}

// Get returns the class with the given name, or nil if none.
func (t *ClassTable) Get(name string) *ActorClass {
	return t.classes[name]
}

// Defaults returns the component defaults of a class.
func (t *ClassTable) Defaults(name string) (ecs.State, bool) {
	c := t.classes[name]
	if c == nil {
		return nil, false
	}
	return c.Components, true
}

// Count returns the total number of classes loaded.
func (t *ClassTable) Count() int {
	return len(t.classes)
}

// Names returns every class name, sorted.
func (t *ClassTable) Names() []string {
	names := make([]string, 0, len(t.classes))
	for n := range t.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
