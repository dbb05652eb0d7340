package services

import (
	"context"
	"falci/internal/imaging"
	"falci/internal/models"
	"falci/internal/providers"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type ReadingState string

const (
	StateIdle          ReadingState = "idle"
	StateImageSelected ReadingState = "image_selected"
	StateSubmitting    ReadingState = "submitting"
	StateCompleted     ReadingState = "completed"
	StateFailed        ReadingState = "failed"
)

type ReadingSnapshot struct {
	Kind      models.ReadingKind `json:"kind"`
	State     ReadingState       `json:"state"`
	HasImage  bool               `json:"hasImage"`
	MediaType string             `json:"mediaType,omitempty"`
	Narrative string             `json:"narrative,omitempty"`
	Error     string             `json:"error,omitempty"`
	EntryID   int64              `json:"entryId,omitempty"`
	// Saved is false when the reading completed but could not be written to history.
	Saved bool `json:"saved"`
}

// ReadingPipeline drives one kind of reading for one user. At most one
// submission runs at a time; concurrent attempts are rejected with ErrBusy.
type ReadingPipeline struct {
	kind          models.ReadingKind
	email         string
	inference     InferenceServiceInterface
	history       HistoryServiceInterface
	normalizer    *imaging.Normalizer
	logger        providers.Logger
	metrics       providers.MetricsProviderInterface
	maxImageBytes int64
	location      *time.Location
	now           func() time.Time

	inFlight atomic.Bool

	mu        sync.Mutex
	state     ReadingState
	image     []byte
	mediaType string
	narrative string
	errMsg    string
	entryID   int64
	saved     bool
}

type PipelineDeps struct {
	Inference     InferenceServiceInterface
	History       HistoryServiceInterface
	Normalizer    *imaging.Normalizer
	Logger        providers.Logger
	Metrics       providers.MetricsProviderInterface
	MaxImageBytes int64
	Location      *time.Location
	Now           func() time.Time
}

func NewReadingPipeline(kind models.ReadingKind, email string, deps PipelineDeps) *ReadingPipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	return &ReadingPipeline{
		kind:          kind,
		email:         email,
		inference:     deps.Inference,
		history:       deps.History,
		normalizer:    deps.Normalizer,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		maxImageBytes: deps.MaxImageBytes,
		location:      loc,
		now:           now,
		state:         StateIdle,
	}
}

// SelectImage replaces the selected image and clears the previous result.
func (rp *ReadingPipeline) SelectImage(data []byte) (ReadingSnapshot, error) {
	if rp.maxImageBytes > 0 && int64(len(data)) > rp.maxImageBytes {
		return rp.Snapshot(), &ValidationError{Fields: []string{"image"}, Reason: "too large"}
	}
	inspect := imaging.Inspect
	if rp.normalizer != nil {
		inspect = rp.normalizer.Inspect
	}
	mediaType, err := inspect(data)
	if err != nil {
		return rp.Snapshot(), &ValidationError{Fields: []string{"image"}, Reason: err.Error()}
	}

	rp.mu.Lock()
	defer rp.mu.Unlock()
	if rp.inFlight.Load() {
		return rp.snapshotLocked(), ErrBusy
	}
	rp.image = append([]byte(nil), data...)
	rp.mediaType = mediaType
	rp.state = StateImageSelected
	rp.narrative = ""
	rp.errMsg = ""
	rp.entryID = 0
	rp.saved = false
	return rp.snapshotLocked(), nil
}

// Submit runs one reading for the selected image. Without an image it fails
// with ErrNoImage, and while another submission runs with ErrBusy; neither
// changes any state. An inference failure leaves the pipeline Failed and
// writes nothing to history. Once started, a submission outlives the caller's
// context; only the inference timeout bounds it.
func (rp *ReadingPipeline) Submit(ctx context.Context, question string) (ReadingSnapshot, error) {
	rp.mu.Lock()
	if len(rp.image) == 0 {
		defer rp.mu.Unlock()
		return rp.snapshotLocked(), ErrNoImage
	}
	if !rp.inFlight.CompareAndSwap(false, true) {
		defer rp.mu.Unlock()
		return rp.snapshotLocked(), ErrBusy
	}
	image, mediaType := rp.image, rp.mediaType
	rp.state = StateSubmitting
	rp.narrative = ""
	rp.errMsg = ""
	rp.entryID = 0
	rp.saved = false
	rp.mu.Unlock()
	defer rp.inFlight.Store(false)

	ctx = context.WithoutCancel(ctx)
	submittedAt := rp.now()
	question = strings.TrimSpace(question)

	payload, payloadType := image, mediaType
	if rp.normalizer != nil {
		if out, mt, err := rp.normalizer.Prepare(image); err != nil {
			rp.logger.Warnf(providers.TypeAI, "Image normalization failed, sending original: %s", err)
		} else {
			payload, payloadType = out, mt
		}
	}

	narrative, err := rp.inference.Complete(ctx, ReadingPersona, []models.InferenceMessage{
		models.NewUserMessage(
			models.ImageBlock(payloadType, payload),
			models.TextBlock(readingPrompt(rp.kind, question)),
		),
	})
	if err != nil {
		rp.metrics.IncReadings(string(rp.kind), "failed")
		rp.mu.Lock()
		defer rp.mu.Unlock()
		rp.state = StateFailed
		rp.errMsg = ReadingFailureText
		return rp.snapshotLocked(), err
	}

	if question == "" {
		question = rp.kind.Title()
	}
	entry := models.HistoryEntry{
		ID:        submittedAt.UnixMilli(),
		Kind:      rp.kind,
		CreatedAt: models.FormatTurkishDateTime(submittedAt.In(rp.location)),
		Question:  question,
		Narrative: narrative,
		Image:     image,
		MediaType: mediaType,
	}
	stored, err := rp.history.Append(ctx, rp.email, entry)
	saved := err == nil
	if saved {
		rp.metrics.IncReadings(string(rp.kind), "completed")
	} else {
		stored = entry
		rp.metrics.IncReadings(string(rp.kind), "unsaved")
		rp.logger.Errorf(providers.TypeApp, "Reading for %s completed but not saved: %s", rp.email, err)
	}

	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.state = StateCompleted
	rp.narrative = narrative
	rp.entryID = stored.ID
	rp.saved = saved
	return rp.snapshotLocked(), nil
}

func (rp *ReadingPipeline) Snapshot() ReadingSnapshot {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return rp.snapshotLocked()
}

func (rp *ReadingPipeline) snapshotLocked() ReadingSnapshot {
	return ReadingSnapshot{
		Kind:      rp.kind,
		State:     rp.state,
		HasImage:  len(rp.image) > 0,
		MediaType: rp.mediaType,
		Narrative: rp.narrative,
		Error:     rp.errMsg,
		EntryID:   rp.entryID,
		Saved:     rp.saved,
	}
}

func (rp *ReadingPipeline) Kind() models.ReadingKind {
	return rp.kind
}
