package host

// ClipHandle identifies a clip placed with the host.
type ClipHandle struct {
	ID    string
	Track int
	Path  string
}

// Host is the placement collaborator consumed by the import coordinator.
type Host interface {
	// CreateAudioClip places an audio file on a track slot at a timeline
	// position and returns a handle to the new clip.
	CreateAudioClip(path string, trackSlot int, startPosition float64) (ClipHandle, error)
	// CreateVideoClip places the video portion of a media file.
	CreateVideoClip(path string, trackSlot int, startPosition float64) (ClipHandle, error)
	// SetClipPan applies a pan coefficient to a placed clip.
	SetClipPan(handle ClipHandle, coefficient float64) error
	// NextFreeTrackSlot returns the first track slot with no content.
	NextFreeTrackSlot() int
}
