// Package palette extracts color palettes from room photos and matches them
// against a curated catalog of style palettes (modern, minimalist,
// scandinavian, industrial).
package palette
