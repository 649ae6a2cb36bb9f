// Package input opens the character streams fed to the formatter. Files are
// decompressed by extension and decoded to UTF-8 from a named or detected
// charset.
package input
