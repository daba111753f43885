// Package inspect extracts raw dependency references from produced binaries
// by shelling out to the platform inspection tool (llvm-objdump, readelf,
// otool) and parsing its text output. The tool invocation sits behind the
// types.Runner seam so the parsers stay testable without the tools
// installed. Every detector fails soft: a missing tool, a timeout, a
// non-zero exit or unparsable output all yield an empty result.
package inspect
