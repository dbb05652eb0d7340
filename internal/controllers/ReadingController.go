package controllers

import (
	"errors"
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/services"
	"falci/internal/structures"
	"io"
	"mime"
	"net/http"
)

// multipartOverhead leaves room for the form boundaries around the image part.
const multipartOverhead = 64 << 10

type ReadingController struct {
	logger        providers.Logger
	maxImageBytes int64
}

func NewReadingController(logger providers.Logger, conf *structures.Config) *ReadingController {
	return &ReadingController{logger: logger, maxImageBytes: conf.Reading.MaxImageBytes}
}

func (rc *ReadingController) pipeline(w http.ResponseWriter, r *http.Request) (*services.ReadingPipeline, bool) {
	state, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return nil, false
	}
	kind, err := readingKind(r)
	if err != nil {
		respondError(w, r, rc.logger, err)
		return nil, false
	}
	p, err := state.Pipeline(kind)
	if err != nil {
		respondError(w, r, rc.logger, err)
		return nil, false
	}
	return p, true
}

func (rc *ReadingController) Snapshot(w http.ResponseWriter, r *http.Request) {
	p, ok := rc.pipeline(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.Snapshot())
}

// SelectImage accepts the image either as the raw request body or as the
// "image" field of a multipart form.
func (rc *ReadingController) SelectImage(w http.ResponseWriter, r *http.Request) {
	p, ok := rc.pipeline(w, r)
	if !ok {
		return
	}

	data, err := rc.readImage(w, r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, errImageTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgImageTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgBadImage)
		return
	}

	snap, err := p.SelectImage(data)
	if err != nil {
		respondError(w, r, rc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

var errImageTooLarge = errors.New("image too large")

func (rc *ReadingController) readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, rc.maxImageBytes)
		return io.ReadAll(r.Body)
	}

	r.Body = http.MaxBytesReader(w, r.Body, rc.maxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(rc.maxImageBytes); err != nil {
		return nil, err
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	if header.Size > rc.maxImageBytes {
		return nil, errImageTooLarge
	}
	return io.ReadAll(io.LimitReader(file, rc.maxImageBytes))
}

// Submit answers 502 with the failed snapshot when inference fails.
func (rc *ReadingController) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := rc.pipeline(w, r)
	if !ok {
		return
	}
	var payload models.SubmitRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	snap, err := p.Submit(r.Context(), payload.Question)
	if errors.Is(err, services.ErrInference) {
		rc.logger.Warnf(providers.TypeAI, "%s reading failed: %s", p.Kind(), err)
		writeJSON(w, http.StatusBadGateway, snap)
		return
	}
	if err != nil {
		respondError(w, r, rc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
