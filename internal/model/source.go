// Package model defines the data structures shared by the conformance harness.
package model

import (
	"path"
	"strings"
)

// Path identifies a fixture, relative to the corpus root and slash separated.
type Path string

// Contains reports whether the path contains the given substring.
func (p Path) Contains(substr string) bool {
	return strings.Contains(string(p), substr)
}

// Dialect is the source language of a unit.
type Dialect string

const (
	// DialectJS is plain JavaScript.
	DialectJS Dialect = "js"
	// DialectJSX is JavaScript with JSX.
	DialectJSX Dialect = "jsx"
	// DialectTS is TypeScript.
	DialectTS Dialect = "ts"
	// DialectTSX is TypeScript with JSX.
	DialectTSX Dialect = "tsx"
)

// DialectFromPath picks a dialect from the file extension, defaulting to JavaScript.
func DialectFromPath(p string) Dialect {
	switch strings.ToLower(path.Ext(p)) {
	case ".jsx":
		return DialectJSX
	case ".ts", ".mts", ".cts":
		return DialectTS
	case ".tsx":
		return DialectTSX
	default:
		return DialectJS
	}
}

// ModuleKind selects script or module goal.
type ModuleKind string

const (
	// Script is the classic script goal.
	Script ModuleKind = "script"
	// Module is the ES module goal.
	Module ModuleKind = "module"
)

// SourceType describes how a unit must be parsed.
type SourceType struct {
	Dialect Dialect
	Kind    ModuleKind
	Strict  bool
}

func (s SourceType) String() string {
	var b strings.Builder

	b.WriteString(string(s.Dialect))
	b.WriteString("/")
	b.WriteString(string(s.Kind))

	if s.Strict {
		b.WriteString("/strict")
	}

	return b.String()
}

// IsModule reports whether the unit uses the module goal.
func (s SourceType) IsModule() bool {
	return s.Kind == Module
}

// IsTypeScript reports whether the dialect is TypeScript or TSX.
func (s SourceType) IsTypeScript() bool {
	return s.Dialect == DialectTS || s.Dialect == DialectTSX
}

// TestUnit is one executable fragment extracted from a source file.
type TestUnit struct {
	Name       string
	Content    string
	SourceType SourceType
}

// Fixture is a discovered source file before it becomes a case.
type Fixture struct {
	Path       Path
	Code       string
	Units      []TestUnit
	ShouldFail bool
}
