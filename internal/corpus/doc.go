// Package corpus enumerates annotation candidates from the raw study corpora.
//
// The corpora are directory trees of per-video, per-slot folders: an image
// corpus holds ordered JPEG/PNG frames per folder and a pose corpus holds one
// MediaPipe hand-annotation JSON document per frame. Each non-empty leaf
// folder becomes one annotation unit whose input bundle is loaded lazily, so
// resumed runs only touch folders whose cells are still unfilled.
//
// Frame sequences longer than the sample cap are thinned to evenly spaced
// indices before upload; frames are downscaled to a quarter of their linear
// size and re-encoded as JPEG to keep request payloads small.
package corpus
