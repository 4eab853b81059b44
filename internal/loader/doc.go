// Package loader reads CTM and SRT files into a single transcript
// collection, dispatching on the file extension and reading files in
// parallel.
package loader
