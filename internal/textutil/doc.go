// Package textutil provides text cleanup and decoding helpers shared by the
// transcript readers.
//
// The primary use cases are:
//   - Stripping punctuation from recognized words and collapsing whitespace
//   - Joining wrapped subtitle lines into a single caption
//   - Decoding legacy character sets into NFC-normalized UTF-8
package textutil
