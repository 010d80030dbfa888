package dispatch

// ListenerError wraps an error returned by a listener during dispatch.
type ListenerError struct {
	// Path is the directory path the listener is subscribed to.
	Path string

	// Key is the listener's key.
	Key string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return "listener " + e.Key + " on " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}
