// Package policy holds source checks for the packages that handle shares.
//
// The checks load pkg/sh2pc and pkg/attribution with golang.org/x/tools and
// walk their syntax trees. They fail when code branches on or indexes by a
// share, formats values as hex, or compares byte slices with ==. Revealing
// values tells nothing about these properties, so they are enforced on the
// source instead.
package policy
