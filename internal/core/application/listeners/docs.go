// Package listeners contains the application-level reactions to accepted
// order transitions. They are registered on services.PersistStateHandler in
// the composition root; the last one registered runs first.
package listeners
