// Package detection models object-detection output and the detectors that
// produce it.
//
// A DetectedObject is one labelled bounding box with a confidence score, as
// emitted by COCO-style detectors ("couch", "tv", "dining table", ...). The
// room analyzer consumes a slice of them once per image and never mutates it.
//
// # Detectors
//
// Detection is an external collaborator behind the Detector interface:
//
//   - HTTPDetector: uploads the frame to a model service and decodes its
//     {"detections": [...]} reply, retrying transient failures.
//   - SidecarDetector: reads precomputed detections stored next to the image.
//   - StaticDetector: returns a fixed list, used for inline tool arguments.
//
// A detector error is terminal for the analysis that triggered it.
//
// # Coordinate System
//
// Bounding boxes are (x, y, width, height) in image pixels with the origin at
// the top-left corner. Boxes may overhang the image and may overlap each
// other; consumers decide how to treat that.
package detection
