// Package uci implements the text codec for the Universal Chess Interface:
// tokenizing incoming lines, classifying and parsing driver commands into
// typed payloads, and rendering engine messages to canonical wire strings.
//
// The package is a pure transform layer. It performs no I/O, keeps no state
// beyond two compiled grammar patterns, and every function is safe for
// concurrent use. Transport, search and option storage belong to the caller.
package uci
