// Package export writes reconciliation output files.
//
// Writers hold an advisory lock beside the destination while they write a
// temp file and rename it into place, so readers never observe a partial
// document and two runs cannot interleave output for the same path.
package export
