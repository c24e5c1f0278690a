// Package cli holds small helpers shared by the ceres commands: typed
// command errors and signal-aware contexts.
package cli
