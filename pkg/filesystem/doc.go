// Package filesystem provides the production implementation of types.FS.
// Tests substitute temp-dir backed trees through the same interface.
package filesystem
