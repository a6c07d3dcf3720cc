// Package state holds the loading/success/error state of remote reads.
//
// A Resource is written by the goroutine that loads it (a controller's
// initial load or a poller) and read by renderers through Snapshot. Writers
// follow one pattern:
//
//	r.Begin()
//	v, err := load(ctx)
//	r.Finish(v, err)
//
// Finish always leaves the Loading status, so a renderer never sees a
// load that does not end. A failure keeps the last successful data and
// counts consecutive failures; two or more mark the snapshot offline.
//
// Snapshots are copies. Data is copied by value, so slices and maps inside
// T are shared with the Resource and must be treated as read-only.
package state
