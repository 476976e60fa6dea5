// Package preview fetches render parameters from the preview endpoint and
// paints them onto a surface, reporting progress through a status line.
//
// # Flow
//
// [Orchestrator.Refresh] sets the status to "Fetching taste…", fetches, and
// then either shows "Please connect Spotify." (any fetch failure), shows
// "Invalid render parameters: <reason>" (validation failure), or clears the
// status and renders.
//
// # Single in-flight slot
//
// Each Refresh takes a generation number. A refresh whose fetch completes
// after a newer refresh has started is superseded: its status updates and its
// render are dropped and it returns [ErrSuperseded]. The older request is not
// cancelled. Renders onto the shared surface are serialised.
package preview
