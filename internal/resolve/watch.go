package resolve

// Watcher is the config-file watching boundary (§6): a swappable
// collaborator the CLI's `watch` subcommand depends on through an
// interface only. No concrete OS-watcher implementation ships in this
// repository (see DESIGN.md's Open Question decisions) — a real
// implementation would wrap something like fsnotify, injected by the
// caller.
type Watcher interface {
	// Watch begins watching path, invoking onChange with the changed file's
	// path whenever the underlying filesystem reports a change. It returns
	// a stop function to cancel the watch and release any resources.
	Watch(path string, onChange func(string)) (stop func(), err error)
}

// NoWatcher is the zero-value Watcher: Watch always fails, so a caller that
// wires no concrete watcher gets an explicit error instead of silently
// doing nothing.
type NoWatcher struct{}

func (NoWatcher) Watch(path string, onChange func(string)) (func(), error) {
	return nil, errNoWatcher{path}
}

type errNoWatcher struct{ path string }

func (e errNoWatcher) Error() string {
	return "no Watcher implementation configured for " + e.path
}
