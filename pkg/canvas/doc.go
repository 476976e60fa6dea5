// Package canvas provides the 2D drawing surfaces the renderer paints on.
//
// The renderer only needs a handful of operations (set a fill colour, fill a
// rectangle, fill a circle, fill an ellipse), captured by [Surface]. Two
// implementations ship:
//
//   - [Image]: a raster surface backed by github.com/fogleman/gg, encodable
//     to PNG. Used by the CLI and the server.
//   - [Recorder]: records every call without rasterising. Used by tests and
//     by anything that wants to inspect a render headlessly.
//
// Surfaces are not safe for concurrent use. A render owns its surface for
// the duration of the call.
package canvas
