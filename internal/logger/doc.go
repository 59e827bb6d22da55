// Package logger holds the process-wide zap sugared logger and the context
// plumbing every component uses to reach it.
//
// Components never keep a logger of their own. They take a context, scope it
// with WithName or WithFields, and log through the package functions, which
// fall back to the global logger when the context carries none. The global
// level can be changed at runtime with SetLevel, and WithMinLevel lowers it
// for one subtree only, which is how the engine tick loop gets its own level.
//
// All loggers built by New share one output. SetOutput moves it, so the
// interactive console can keep log lines from tearing its prompt.
package logger
