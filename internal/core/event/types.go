package event

// KeyPressed reports a key going down. Code is defined by the input source.
type KeyPressed struct {
	Code int
}

// KeyReleased reports a key going up.
type KeyReleased struct {
	Code int
}
