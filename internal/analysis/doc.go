// Package analysis implements the room analysis heuristic pipeline.
//
// Given a decoded room photo and the objects a detector found in it, the
// pipeline classifies the room and its design style, rates color harmony,
// lighting, space utilization and furniture arrangement on a shared
// four-step Tier scale, and synthesizes tiered recommendations plus an
// overall score and letter grade.
//
// # Stages
//
//  1. Object detection (external, via detection.Detector)
//  2. Room type classification: ordered first-match rule table
//  3. Style classification: ordered first-match rule table
//  4. Color harmony: stride sampling, top-5 palette
//  5. Lighting: mean brightness buckets
//  6. Space utilization: bounding-box area ratio buckets
//  7. Recommendations and overall score
//
// Every stage is a pure function of the detections and the pixel buffer, so
// each can be called on its own. Analyzer chains them, reports progress and
// aborts on the first error; a failed analysis never yields a partial report.
//
// # Known Quirks
//
// Several behaviors are kept exactly as the heuristics define them:
//   - the palette holds at most five colors, so harmony never rates excellent
//   - arrangement thresholds run the other way: lower scores are better
//   - arrangement is reported but left out of the overall score
//   - overlapping boxes are summed, overstating space utilization
package analysis
