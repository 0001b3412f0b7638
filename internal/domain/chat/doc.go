// Package chat implements the multi-provider orchestration workflow behind a
// chat turn: optional reference-image analysis, the mandatory text reply,
// keyword-based image intent detection, best-effort image generation, and the
// narration pass that replaces the reply when an image was produced. Only the
// primary text completion is fatal; every other step degrades to whichever
// reply text was last produced.
package chat
