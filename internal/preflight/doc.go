// Package preflight provides readiness checks for the filesystem paths and
// settings timegraph depends on.
//
// The CLI "timegraph check" command runs RunAll and prints one status line
// per result. Checks never create directories or databases; a store that
// does not exist yet is reported as such and passes.
package preflight
