// Package editor binds a schema tree store to the JSON projector. A Session is
// the single logical writer for one editing session: every mutation is applied
// to the store and immediately followed by a full re-projection, so the
// preview is always exactly what Submit would emit for the current tree.
package editor
