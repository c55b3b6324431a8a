package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-segments/internal/segment"
	"github.com/drakos74/free-segments/internal/table"
)

// Stage is the progress of a single upload.
type Stage int

const (
	NoFileUploaded Stage = iota
	Validating
	ValidationFailed
	Scoring
	Presenting
	Done
	// Failed is reached on any error that is not a missing column.
	Failed
)

func (s Stage) String() string {
	switch s {
	case NoFileUploaded:
		return "no-file-uploaded"
	case Validating:
		return "validating"
	case ValidationFailed:
		return "validation-failed"
	case Scoring:
		return "scoring"
	case Presenting:
		return "presenting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is everything produced for one upload.
type Result struct {
	ID        string
	Stage     Stage
	Stages    []Stage
	Input     *table.Table
	Output    *table.Table
	Labels    []int
	Centroids []segment.Centroid
	Summary   []segment.Summary
	Err       error
}

func newResult(id string) *Result {
	return &Result{
		ID:     id,
		Stage:  NoFileUploaded,
		Stages: []Stage{NoFileUploaded},
	}
}

func (r *Result) advance(stage Stage) {
	log.Debug().
		Str("id", r.ID).
		Str("from", r.Stage.String()).
		Str("to", stage.String()).
		Msg("upload stage")
	r.Stage = stage
	r.Stages = append(r.Stages, stage)
}

func (r *Result) fail(stage Stage, err error) *Result {
	r.Err = err
	r.advance(stage)
	log.Warn().
		Err(err).
		Str("id", r.ID).
		Str("stage", stage.String()).
		Msg("could not process upload")
	return r
}

// Code is the http status matching the outcome of the upload.
func (r *Result) Code() int {
	if r.Err == nil {
		return http.StatusOK
	}
	var mErr *segment.MissingColumnsError
	var vErr *segment.ValueError
	switch {
	case errors.As(r.Err, &mErr), errors.As(r.Err, &vErr), errors.Is(r.Err, segment.ErrNoRows):
		return http.StatusUnprocessableEntity
	case errors.Is(r.Err, table.ErrMalformed), errors.Is(r.Err, table.ErrEmpty), errors.Is(r.Err, ErrNoFile):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Process runs one upload through validation, scoring and presentation.
func Process(scorer *segment.Scorer, id string, src io.Reader) *Result {
	res := newResult(id)
	if src == nil {
		return res.fail(Failed, ErrNoFile)
	}

	res.advance(Validating)
	input, err := table.ReadCSV(src)
	if err != nil {
		return res.fail(Failed, err)
	}
	res.Input = input
	if err := segment.Validate(input); err != nil {
		return res.fail(ValidationFailed, err)
	}

	res.advance(Scoring)
	output, err := scorer.Score(input)
	if err != nil {
		return res.fail(Failed, err)
	}
	res.Output = output

	res.advance(Presenting)
	if res.Labels, err = segment.Labels(output); err != nil {
		return res.fail(Failed, err)
	}
	if res.Centroids, err = scorer.Centroids(); err != nil {
		return res.fail(Failed, err)
	}
	if res.Summary, err = segment.Summarize(output); err != nil {
		return res.fail(Failed, err)
	}

	res.advance(Done)
	log.Info().
		Str("id", id).
		Int("rows", output.Len()).
		Int("segments", len(res.Summary)).
		Msg("scored upload")
	return res
}
