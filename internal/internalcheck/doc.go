// Package internalcheck holds static checks over the secret-handling
// packages. It has no API; everything lives in its tests.
package internalcheck
