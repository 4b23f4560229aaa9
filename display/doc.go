// Package display turns monochrome bitmaps into draw commands for the
// brick's 178x128 LCD.
//
// A bitmap is scanned row by row and every horizontal run of set pixels
// becomes one Segment. Printer turns segments into draw fragments: a pixel
// draw when the run is one pixel wide, otherwise a line draw. Fragments are
// small, so callers pack many of them into one command with packet.Pack.
//
// For animation, Delta compares two frames and emits only the runs whose
// pixels changed, carrying the new color of each run.
package display
