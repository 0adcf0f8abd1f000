// Package interfaces holds compile-time interface implementation checks.
// It has no runtime behavior.
package interfaces
