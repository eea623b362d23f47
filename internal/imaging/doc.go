// Package imaging provides the image plumbing behind the room analyzer.
//
// It loads and caches room photos, flattens them into raw pixel buffers for
// the analysis pipeline, and renders derived images (per-object crops and
// detection overlays) for MCP clients. All operations work with standard Go
// image.Image values and a coordinate system where (0,0) is the top-left
// corner, X increases rightward and Y increases downward.
//
// # Accepted Formats
//
// Only JPEG and PNG uploads are accepted. The format is sniffed from the file
// contents; anything else fails with ErrUnsupportedFormat before decoding.
//
// # Pixel Buffers
//
// Pixels stores non-premultiplied RGBA bytes in row-major order, the same
// layout a browser canvas exposes. Analyzers index it linearly, so a stride
// over "every 4th pixel" has one unambiguous meaning.
//
// # Color Representation
//
// Colors are reported as lowercase "#rrggbb" hex strings, 8-bit RGB
// components and rounded HSL. Conversions go through go-colorful.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and never modify their input image.
package imaging
