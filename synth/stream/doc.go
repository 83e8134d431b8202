// Package stream implements the StreamingBufferManager: it decouples the
// caller that supplies StreamingFrames from the caller that reads
// synthesized samples, at a target end-to-end latency, using the
// lock-free SPSC internal/ringbuffer for both the frame queue and the
// sample queue.
//
// A single optional background worker owns synthesis for its lifetime;
// callers may instead drive processing themselves by calling ProcessOne.
package stream
