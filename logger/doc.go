// Package logger provides structured logging built on zerolog.
//
// Console output is meant for people watching a CLI run; JSON output is for
// log shippers. Logs go to stderr by default so stdout stays free for
// results, and a file path in Config.Output enables lumberjack rotation.
//
// # Usage
//
//	log := logger.Get("dispatcher")
//	log.Info("dispatch ok", logger.QueryFields("osm", "geocode", "Ottawa"))
package logger
