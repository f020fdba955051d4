package logger

import "sync"

// named caches component loggers derived from the global logger. It is
// emptied whenever the global logger is replaced.
var named sync.Map

// Get returns the global logger tagged with component name. Callers may
// keep the result; a later SetGlobalLogger only affects later calls.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	l, _ := named.LoadOrStore(name, GetGlobalLogger().WithComponent(name))
	return l.(*Logger)
}
