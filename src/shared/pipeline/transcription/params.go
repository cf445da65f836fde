package transcription

import (
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
)

type Params struct {
	// OnsetThreshold: lower reports new notes more readily
	OnsetThreshold float64 `json:"onset_threshold"`
	// FrameThreshold: lower keeps sustained pitches more readily
	FrameThreshold float64 `json:"frame_threshold"`
	// MinNoteLength in seconds
	MinNoteLength float64  `json:"min_note_len"`
	MinFreq       *float64 `json:"min_freq"`
	MaxFreq       *float64 `json:"max_freq"`
	MelodiaTrick  bool     `json:"melodia_trick"`
}

func DefaultParams() Params {
	return Params{
		OnsetThreshold: 0.5,
		FrameThreshold: 0.3,
		MinNoteLength:  0.127,
		MinFreq:        nil,
		MaxFreq:        nil,
		MelodiaTrick:   true,
	}
}

func (p Params) Validate() error {
	errctx := cerr.Field("params", p)

	if p.OnsetThreshold < 0 || p.OnsetThreshold > 1 {
		return errctx.Error("Onset threshold must be within [0, 1]")
	}

	if p.FrameThreshold < 0 || p.FrameThreshold > 1 {
		return errctx.Error("Frame threshold must be within [0, 1]")
	}

	if p.MinNoteLength <= 0 {
		return errctx.Error("Minimum note length must be positive")
	}

	if p.MinFreq != nil && *p.MinFreq <= 0 {
		return errctx.Error("Minimum frequency must be positive")
	}

	if p.MaxFreq != nil && *p.MaxFreq <= 0 {
		return errctx.Error("Maximum frequency must be positive")
	}

	if p.MinFreq != nil && p.MaxFreq != nil && *p.MinFreq >= *p.MaxFreq {
		return errctx.Error("Minimum frequency must be below maximum frequency")
	}

	return nil
}
