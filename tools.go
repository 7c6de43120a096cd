//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// goose is managed via the go.mod tool directive and runs migrations under
// migrations/.
