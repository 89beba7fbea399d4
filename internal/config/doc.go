/*
Package config loads the engine's configuration from, in increasing
precedence, compiled-in defaults (NewDefault), a YAML file (LoadFromFile),
and DUOPANE_* environment variables (LoadFromEnv). cmd/engine applies CLI
flags last, after all three.
*/
package config
