package core

// DebugMode controls whether elements capture their creation site as a
// diagnostic source. When true, errors raised while mounting or updating
// an element include the file:line where the element was built.
var DebugMode = true

// SetDebugMode enables or disables debug mode for the engine.
func SetDebugMode(debug bool) {
	DebugMode = debug
}
