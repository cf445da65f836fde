package transcribe_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/transcribe/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/transcribe/gateway"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/transcribe/usecase"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/transcription"
	. "github.com/veedubyou/chord-paper-transcriber/src/shared/testing"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

type stubTranscriber struct {
	fail       bool
	lastParams transcription.Params
}

func (s *stubTranscriber) Standalone(_ context.Context, inputPath string, outputDir string, params transcription.Params, _ float64) transcription.StandaloneResult {
	s.lastParams = params
	filename := transcription.StandaloneFilename(inputPath)

	if s.fail {
		return transcription.StandaloneResult{Success: false, Filename: filename, Error: "basic-pitch exploded"}
	}

	Expect(os.MkdirAll(outputDir, os.ModePerm)).To(Succeed())
	midiPath := filepath.Join(outputDir, filename)
	Expect(os.WriteFile(midiPath, []byte("MThd"), 0644)).To(Succeed())

	notes := []transcriptionentity.Note{{Pitch: 60, Start: 0.5, Duration: 1, Velocity: 1}}
	return transcription.StandaloneResult{
		Success:   true,
		Filename:  filename,
		MIDIPath:  midiPath,
		NoteCount: len(notes),
		Duration:  1.5,
		Notes:     notes,
	}
}

type stubProcessor struct {
	requests []pipeline.Request
}

func (s *stubProcessor) Process(_ context.Context, request pipeline.Request) transcriptionentity.ProcessingResult {
	s.requests = append(s.requests, request)

	midiPath := filepath.Join(request.OutputDir, "original.mid")
	Expect(os.WriteFile(midiPath, []byte("MThd-original"), 0644)).To(Succeed())

	return transcriptionentity.CompletedResult([]transcriptionentity.Track{
		transcriptionentity.NewTrack("original", "transcribed", request.InputPath, midiPath, nil),
	})
}

var _ = Describe("Transcribe", func() {
	var (
		outputRoot  string
		audioPath   string
		transcriber *stubTranscriber
		processor   *stubProcessor
		gateway     transcribegateway.Gateway
		response    *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		outputRoot = TempDir()
		audioPath = filepath.Join(TempDir(), "my song.mp3")
		Expect(os.WriteFile(audioPath, []byte("ID3"), 0644)).To(Succeed())

		transcriber = &stubTranscriber{}
		processor = &stubProcessor{}
		usecase := transcribeusecase.NewUsecase(transcriber, processor, outputRoot, 300)
		gateway = transcribegateway.NewGateway(usecase, transcription.DefaultParams())

		response = httptest.NewRecorder()
	})

	upload := func(form map[string]string, withFile bool) {
		factory := RequestFactory{
			Method: "POST",
			Target: "/upload",
			Form:   form,
		}
		if factory.Form == nil {
			factory.Form = map[string]string{}
		}
		if withFile {
			factory.File = &UploadFile{Field: "file", Path: audioPath}
		}

		c := PrepareEchoContext(factory.MakeFake(), response)
		Expect(gateway.Upload(c)).To(Succeed())
	}

	process := func(form map[string]string) {
		factory := RequestFactory{
			Method: "POST",
			Target: "/process",
			Form:   form,
			File:   &UploadFile{Field: "file", Path: audioPath},
		}

		c := PrepareEchoContext(factory.MakeFake(), response)
		Expect(gateway.Process(c)).To(Succeed())
	}

	Describe("Upload", func() {
		It("returns the standalone result", func() {
			upload(nil, true)

			Expect(response.Code).To(Equal(http.StatusOK))
			result := DecodeJSON[transcription.StandaloneResult](response.Body)
			Expect(result.Success).To(BeTrue())
			Expect(result.Filename).To(Equal("my song_transcribed.mid"))
			Expect(result.MIDIPath).To(Equal("/midi/my song_transcribed.mid"))
			Expect(result.NoteCount).To(Equal(1))
			Expect(result.Duration).To(Equal(1.5))
		})

		It("passes the form parameters through", func() {
			upload(map[string]string{
				"onset_threshold": "0.7",
				"frame_threshold": "0.2",
				"min_note_len":    "0.05",
				"min_freq":        "80",
				"max_freq":        "1000",
				"melodia_trick":   "False",
			}, true)

			Expect(response.Code).To(Equal(http.StatusOK))
			Expect(transcriber.lastParams.OnsetThreshold).To(Equal(0.7))
			Expect(transcriber.lastParams.FrameThreshold).To(Equal(0.2))
			Expect(transcriber.lastParams.MinNoteLength).To(Equal(0.05))
			Expect(*transcriber.lastParams.MinFreq).To(Equal(80.0))
			Expect(*transcriber.lastParams.MaxFreq).To(Equal(1000.0))
			Expect(transcriber.lastParams.MelodiaTrick).To(BeFalse())
		})

		It("uses the defaults for absent parameters", func() {
			upload(map[string]string{}, true)

			Expect(transcriber.lastParams).To(Equal(transcription.DefaultParams()))
		})

		It("rejects a request without a file", func() {
			upload(map[string]string{"onset_threshold": "0.5"}, false)

			Expect(response.Code).To(Equal(http.StatusBadRequest))
			Expect(DecodeJSONError(response.Body).Code).To(Equal(string(transcribeerrors.MissingFileCode)))
		})

		It("rejects parameters that aren't numbers", func() {
			upload(map[string]string{"onset_threshold": "loud"}, true)

			Expect(response.Code).To(Equal(http.StatusBadRequest))
			Expect(DecodeJSONError(response.Body).Code).To(Equal(string(transcribeerrors.BadParamsCode)))
		})

		It("rejects parameters out of range", func() {
			upload(map[string]string{"frame_threshold": "1.5"}, true)

			Expect(response.Code).To(Equal(http.StatusBadRequest))
			Expect(DecodeJSONError(response.Body).Code).To(Equal(string(transcribeerrors.BadParamsCode)))
		})

		It("reports a failed transcription", func() {
			transcriber.fail = true
			upload(nil, true)

			Expect(response.Code).To(Equal(http.StatusInternalServerError))
			apiErr := DecodeJSONError(response.Body)
			Expect(apiErr.Code).To(Equal(string(transcribeerrors.TranscriptionFailedCode)))
			Expect(apiErr.ErrorDetails).To(ContainSubstring("basic-pitch exploded"))
		})

		It("fails when the uploads dir can't be created", func() {
			blockedRoot := filepath.Join(TempDir(), "blocked")
			Expect(os.WriteFile(blockedRoot, []byte("not a dir"), 0644)).To(Succeed())
			usecase := transcribeusecase.NewUsecase(transcriber, processor, blockedRoot, 300)
			gateway = transcribegateway.NewGateway(usecase, transcription.DefaultParams())

			upload(nil, true)

			Expect(response.Code).To(Equal(http.StatusInternalServerError))
			Expect(DecodeJSONError(response.Body).Code).To(Equal("unknown_error"))
			Expect(transcriber.lastParams).To(Equal(transcription.Params{}))
		})

		It("removes the uploaded audio afterwards", func() {
			upload(nil, true)

			entries, err := os.ReadDir(filepath.Join(outputRoot, "uploads"))
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("serves the MIDI file afterwards", func() {
			upload(nil, true)

			midiResponse := httptest.NewRecorder()
			request := RequestFactory{Method: "GET", Target: "/midi/x"}.MakeFake()
			Expect(gateway.GetMIDI(PrepareEchoContext(request, midiResponse), "my song_transcribed.mid")).To(Succeed())

			Expect(midiResponse.Code).To(Equal(http.StatusOK))
			Expect(midiResponse.Body.String()).To(Equal("MThd"))
		})
	})

	Describe("Process", func() {
		It("runs the pipeline with the form settings", func() {
			process(map[string]string{"use_separation": "false", "max_duration": "42"})

			Expect(response.Code).To(Equal(http.StatusOK))
			Expect(processor.requests).To(HaveLen(1))
			Expect(processor.requests[0].UseSeparation).To(BeFalse())
			Expect(processor.requests[0].MaxDuration).To(Equal(42.0))
			Expect(filepath.Base(processor.requests[0].InputPath)).To(Equal("input.mp3"))
		})

		It("separates with the default duration cap when not told otherwise", func() {
			process(map[string]string{})

			Expect(processor.requests[0].UseSeparation).To(BeTrue())
			Expect(processor.requests[0].MaxDuration).To(Equal(300.0))
		})

		It("answers with served paths", func() {
			process(map[string]string{})

			result := DecodeJSON[transcriptionentity.ProcessingResult](response.Body)
			Expect(result.Success).To(BeTrue())
			Expect(result.Tracks).To(HaveLen(1))

			runID := filepath.Base(processor.requests[0].OutputDir)
			Expect(result.Tracks[0].MIDIPath).To(Equal(fmt.Sprintf("/runs/%s/original.mid", runID)))
			Expect(result.Tracks[0].AudioPath).To(Equal(fmt.Sprintf("/runs/%s/input.mp3", runID)))
		})

		It("rejects a malformed separation flag", func() {
			process(map[string]string{"use_separation": "maybe"})

			Expect(response.Code).To(Equal(http.StatusBadRequest))
			Expect(processor.requests).To(BeEmpty())
		})

		It("rejects a negative duration", func() {
			process(map[string]string{"max_duration": "-3"})

			Expect(response.Code).To(Equal(http.StatusBadRequest))
		})

		Describe("Serving run artifacts", func() {
			var runID string

			getArtifact := func(runID string, filename string) *httptest.ResponseRecorder {
				artifactResponse := httptest.NewRecorder()
				request := RequestFactory{Method: "GET", Target: "/runs/x/y"}.MakeFake()
				Expect(gateway.GetRunArtifact(PrepareEchoContext(request, artifactResponse), runID, filename)).To(Succeed())
				return artifactResponse
			}

			BeforeEach(func() {
				process(map[string]string{})
				runID = filepath.Base(processor.requests[0].OutputDir)
			})

			It("serves a file of the run", func() {
				artifactResponse := getArtifact(runID, "original.mid")
				Expect(artifactResponse.Code).To(Equal(http.StatusOK))
				Expect(artifactResponse.Body.String()).To(Equal("MThd-original"))
			})

			It("404s on a missing file", func() {
				artifactResponse := getArtifact(runID, "vocals.mid")
				Expect(artifactResponse.Code).To(Equal(http.StatusNotFound))
			})

			It("404s on a malformed run ID", func() {
				artifactResponse := getArtifact("not-a-run", "original.mid")
				Expect(artifactResponse.Code).To(Equal(http.StatusNotFound))
			})

			It("refuses to leave the run directory", func() {
				secret := filepath.Join(outputRoot, "runs", "secret.txt")
				Expect(os.WriteFile(secret, []byte("nope"), 0644)).To(Succeed())

				for _, filename := range []string{"../secret.txt", "..", strings.Join([]string{"..", "..", "secret.txt"}, "/"), `..\secret.txt`} {
					artifactResponse := getArtifact(runID, filename)
					Expect(artifactResponse.Code).To(Equal(http.StatusNotFound), filename)
				}
			})
		})
	})
})
