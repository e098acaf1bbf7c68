package outbound

// AudioTransport and VideoTransport are the seams to the actual playback
// elements, which live in the presentation layer. Audio is the timeline:
// once started it runs continuously while video sources are swapped
// underneath it.

type AudioTransport interface {
	// Restart seeks to time zero and starts playback.
	Restart()
	Pause()
}

type VideoTransport interface {
	SetSource(blobURL string)
	Play()
}
