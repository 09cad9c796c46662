// Package environment resolves the deployment environment from APP_ENV and
// exposes it as a typed value. The health checker cadence and the logger
// presets both key off it.
package environment
