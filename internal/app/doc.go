// Package app assembles the manifest plugin, the simulated host, and the
// loaded configuration into a runnable application.
package app
