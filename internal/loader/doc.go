// Package loader runs one load cycle against an HTML shell document.
//
// A cycle moves through four phases in order:
//
//	normalize → site → page → render
//
// Normalize may end the cycle with a redirect. A failed site phase is logged
// and the cycle continues without site keys. A failed page phase replaces the
// display container with a fixed fallback fragment. Render always runs once
// the normalize phase has passed, so the shell (or the fallback) is still
// substituted with whatever keys were loaded.
//
// Every call to Load builds fresh records, a fresh replacement table and a
// fresh attribute snapshot; nothing carries over between cycles.
package loader
