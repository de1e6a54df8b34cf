// Package errors provides structured error handling for the Weft engine.
package errors

import "fmt"

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfiguration indicates a malformed element, such as an invalid
	// portal target or a reserved property name.
	KindConfiguration
	// KindInvalidOperation indicates a call that is illegal in the current
	// lifecycle phase, such as SetState during render or unmount.
	KindInvalidOperation
	// KindProperty indicates a failed host property write.
	KindProperty
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInvalidOperation:
		return "invalid operation"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// ConfigurationError reports a malformed element.
type ConfigurationError struct {
	// Op is the operation that rejected the element (e.g., "core.mountPortal").
	Op string
	// Reason describes what was malformed.
	Reason string
	// Source is the element's diagnostic source, if captured.
	Source string
}

func (e *ConfigurationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s [%s]: %s (element created at %s)", e.Op, KindConfiguration, e.Reason, e.Source)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Op, KindConfiguration, e.Reason)
}

// Kind returns KindConfiguration.
func (e *ConfigurationError) Kind() ErrorKind { return KindConfiguration }

// InvalidOperationError reports a call made in a lifecycle phase that
// forbids it.
type InvalidOperationError struct {
	// Op is the rejected call (e.g., "core.SetState").
	Op string
	// Phase names the offending lifecycle phase (e.g., "render", "unmount").
	Phase string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%s [%s]: not allowed during %s", e.Op, KindInvalidOperation, e.Phase)
}

// Kind returns KindInvalidOperation.
func (e *InvalidOperationError) Kind() ErrorKind { return KindInvalidOperation }

// PropertyError reports a failed host property write. It carries the
// element's diagnostic source so the failing write can be traced back to
// the element that requested it.
type PropertyError struct {
	// Object is the host object's class or name, if known.
	Object string
	// Property is the property that could not be written.
	Property string
	// Source is the element's diagnostic source, if captured.
	Source string
	// Err is the underlying error from the host.
	Err error
}

func (e *PropertyError) Error() string {
	msg := fmt.Sprintf("set %s.%s [%s]: %v", e.Object, e.Property, KindProperty, e.Err)
	if e.Source != "" {
		msg += fmt.Sprintf(" (element created at %s)", e.Source)
	}
	return msg
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

// Kind returns KindProperty.
func (e *PropertyError) Kind() ErrorKind { return KindProperty }
