package transcriptionentity

const (
	MinPitch = 0
	MaxPitch = 127
)

// Note is one transcribed event. Velocity is a best-effort loudness or
// confidence proxy in [0, 1], 0 when the model didn't provide one.
type Note struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Velocity float64 `json:"velocity"`
}

func (n Note) Valid() bool {
	return n.Pitch >= MinPitch && n.Pitch <= MaxPitch &&
		n.Start >= 0 &&
		n.Duration > 0 &&
		n.Velocity >= 0 && n.Velocity <= 1
}

// Track is the transcription of one stem. Notes stay in detection order.
type Track struct {
	Stem       string `json:"stem"`
	Instrument string `json:"instrument"`
	AudioPath  string `json:"audio_path"`
	MIDIPath   string `json:"midi_path"`
	Notes      []Note `json:"notes"`
	NoteCount  int    `json:"note_count"`
}

func NewTrack(stem string, instrument string, audioPath string, midiPath string, notes []Note) Track {
	if notes == nil {
		notes = []Note{}
	}

	return Track{
		Stem:       stem,
		Instrument: instrument,
		AudioPath:  audioPath,
		MIDIPath:   midiPath,
		Notes:      notes,
		NoteCount:  len(notes),
	}
}

type ProcessingResult struct {
	Success bool    `json:"success"`
	Tracks  []Track `json:"tracks"`
	Error   *string `json:"error"`
}

// CompletedResult is the outcome of a run that reached aggregation
func CompletedResult(tracks []Track) ProcessingResult {
	if tracks == nil {
		tracks = []Track{}
	}

	return ProcessingResult{
		Success: len(tracks) > 0,
		Tracks:  tracks,
		Error:   nil,
	}
}

// FailedResult is the outcome of a run that aborted. No tracks survive an
// abort.
func FailedResult(message string) ProcessingResult {
	return ProcessingResult{
		Success: false,
		Tracks:  []Track{},
		Error:   &message,
	}
}

func (p ProcessingResult) ErrorMessage() string {
	if p.Error == nil {
		return ""
	}

	return *p.Error
}

func (p ProcessingResult) FindTrack(stem string) (Track, bool) {
	for _, track := range p.Tracks {
		if track.Stem == stem {
			return track, true
		}
	}

	return Track{}, false
}
