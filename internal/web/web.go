package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/drakos74/free-segments/internal/metrics"
	"github.com/drakos74/free-segments/internal/plot"
	"github.com/drakos74/free-segments/internal/segment"
	"github.com/drakos74/free-segments/internal/server"
	"github.com/drakos74/free-segments/internal/table"
)

const (
	// FileField is the multipart field holding the uploaded csv.
	FileField = "file"
	// DownloadName is the file name offered for the scored table.
	DownloadName = "clustered_output.csv"
	// DefaultPreview is the number of input rows shown before scoring.
	DefaultPreview = 5

	maxMemory = 32 << 20
	htmlType  = "text/html; charset=utf-8"
	csvType   = "text/csv; charset=utf-8"
)

// ErrNoFile is returned when the request carries no csv.
var ErrNoFile = errors.New("no file uploaded")

//go:embed templates/page.html
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/page.html"))

// App serves the upload page and the scoring api.
type App struct {
	scorer  *segment.Scorer
	metrics *metrics.Metrics
	preview int
}

// New creates the app around a scorer. A non-positive preview uses DefaultPreview.
func New(scorer *segment.Scorer, m *metrics.Metrics, preview int) *App {
	if preview <= 0 {
		preview = DefaultPreview
	}
	return &App{
		scorer:  scorer,
		metrics: m,
		preview: preview,
	}
}

// Routes returns the routes of the app.
func (a *App) Routes() []server.Route {
	return []server.Route{
		server.NewRoute(server.GET, "/").
			WithHeader("Content-Type", htmlType).
			Handler(a.index).
			Create(),
		server.NewRoute(server.POST, "/upload").
			WithHeader("Content-Type", htmlType).
			Handler(a.upload).
			Create(),
		server.NewRoute(server.POST, "/api/score").
			WithHeader("Content-Type", csvType).
			WithHeader("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": DownloadName})).
			Handler(a.score).
			Create(),
		server.NewRoute(server.GET, "/api/centroids").
			WithHeader("Content-Type", "application/json").
			Handler(a.centroids).
			Create(),
		server.Live(),
	}
}

func (a *App) index(_ context.Context, _ *http.Request) ([]byte, int, error) {
	b, err := a.render(newResult(uuid.New().String()))
	return b, http.StatusOK, err
}

func (a *App) upload(_ context.Context, r *http.Request) ([]byte, int, error) {
	defer a.metrics.Observe("upload", time.Now())
	res := a.process(r)
	a.count("upload", res)
	b, err := a.render(res)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return b, res.Code(), nil
}

func (a *App) score(_ context.Context, r *http.Request) ([]byte, int, error) {
	defer a.metrics.Observe("score", time.Now())
	res := a.process(r)
	a.count("score", res)
	if res.Err != nil {
		return nil, res.Code(), res.Err
	}
	b, err := res.Output.Bytes()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return b, http.StatusOK, nil
}

func (a *App) centroids(_ context.Context, _ *http.Request) ([]byte, int, error) {
	centroids, err := a.scorer.Centroids()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	b, err := json.Marshal(centroids)
	return b, http.StatusOK, err
}

func (a *App) process(r *http.Request) *Result {
	id := uuid.New().String()
	src, err := file(r)
	if err != nil {
		res := newResult(id)
		return res.fail(Failed, err)
	}
	defer src.Close()
	return Process(a.scorer, id, src)
}

func (a *App) count(route string, res *Result) {
	switch res.Stage {
	case Done:
		a.metrics.Upload(route, metrics.Scored)
		a.metrics.Labels(res.Labels)
	case ValidationFailed:
		a.metrics.Upload(route, metrics.ValidationFailed)
	default:
		a.metrics.Upload(route, metrics.Failed)
	}
}

// file returns the uploaded csv, either a multipart file or the raw body.
func file(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("could not parse form: %s: %w", err.Error(), ErrNoFile)
		}
		f, _, err := r.FormFile(FileField)
		if err != nil {
			return nil, fmt.Errorf("could not read form file '%s': %s: %w", FileField, err.Error(), ErrNoFile)
		}
		return f, nil
	}
	if r.Body == nil || r.ContentLength == 0 {
		return nil, ErrNoFile
	}
	return r.Body, nil
}

type tableView struct {
	Columns []string
	Rows    [][]string
}

func newTableView(t *table.Table) *tableView {
	if t == nil {
		return nil
	}
	return &tableView{
		Columns: t.Columns(),
		Rows:    t.Records(),
	}
}

type view struct {
	Title        string
	ChartTitle   string
	Uploaded     bool
	Stage        string
	Error        string
	Preview      *tableView
	Chart        string
	Summary      []segment.Summary
	Output       *tableView
	Download     template.URL
	DownloadName string
}

func (a *App) render(res *Result) ([]byte, error) {
	v := view{
		Title:      "Customer Segmentation App",
		ChartTitle: plot.Title,
		Uploaded:   res.Stage != NoFileUploaded,
		Stage:      res.Stage.String(),
	}
	if res.Input != nil {
		v.Preview = newTableView(res.Input.Head(a.preview))
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
	}
	if res.Stage == Done {
		var chart bytes.Buffer
		if err := plot.Render(&chart, res.Output, res.Centroids); err != nil {
			return nil, err
		}
		b, err := res.Output.Bytes()
		if err != nil {
			return nil, fmt.Errorf("could not encode output: %w", err)
		}
		v.Chart = chart.String()
		v.Summary = res.Summary
		v.Output = newTableView(res.Output)
		v.Download = template.URL("data:text/csv;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(b))
		v.DownloadName = DownloadName
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("could not render page: %w", err)
	}
	return buf.Bytes(), nil
}
