// Package pixel describes how colors are stored in raw pixel memory.
//
// A [Format] maps colors to native pixel values using per-channel bit masks, or
// through a [Palette] for indexed formats. A [Buffer] is the raw memory a
// format is applied to. Colors interoperate with Go's native [color.Color] and
// [image.Image] / [draw.Image] interfaces.
package pixel
