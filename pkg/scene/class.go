package scene

import (
	"fmt"

	"github.com/go-weft/weft/pkg/errors"
)

// Class describes one kind of scene object: the properties it carries,
// their default values, and the events it can fire.
type Class struct {
	// Name identifies the class; host elements refer to it by this string.
	Name string
	// Defaults declares the class's properties along with the value each
	// one resets to when no element prop covers it.
	Defaults map[string]any
	// Events lists the event names instances of this class can fire.
	Events []string
}

// HasEvent reports whether the class declares the named event.
func (c *Class) HasEvent(name string) bool {
	for _, ev := range c.Events {
		if ev == name {
			return true
		}
	}
	return false
}

// HasProperty reports whether the class declares the named property.
func (c *Class) HasProperty(name string) bool {
	_, ok := c.Defaults[name]
	return ok
}

// Registry is a set of classes a renderer can instantiate.
type Registry struct {
	classes map[string]*Class
}

// NewRegistry creates an empty class registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// Register adds class to the registry. Registering a name twice or a
// class without a name is a configuration error.
func (r *Registry) Register(class *Class) error {
	if class == nil || class.Name == "" {
		return &errors.ConfigurationError{Op: "scene.Register", Reason: "class has no name"}
	}
	if _, ok := r.classes[class.Name]; ok {
		return &errors.ConfigurationError{
			Op:     "scene.Register",
			Reason: fmt.Sprintf("class %q already registered", class.Name),
		}
	}
	r.classes[class.Name] = class
	return nil
}

// MustRegister is Register for static class tables; it panics on error.
func (r *Registry) MustRegister(class *Class) {
	if err := r.Register(class); err != nil {
		panic(err)
	}
}

// Class returns the named class, or nil when unknown.
func (r *Registry) Class(name string) *Class {
	return r.classes[name]
}
