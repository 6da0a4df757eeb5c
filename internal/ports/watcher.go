package ports

// Watcher monitors a single pattern file for changes and triggers a matcher
// rebuild. The adapter (fsnotify) debounces rapid events — editors often
// trigger multiple writes per save. Only one Watch call should be active at
// a time.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with the absolute path
	// after each (debounced) modification. The callback may be invoked from
	// any goroutine. Returns an error if the file doesn't exist or
	// permissions are insufficient.
	Watch(path string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
