package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/free-segments/internal/artifact"
	"github.com/drakos74/free-segments/internal/metrics"
	"github.com/drakos74/free-segments/internal/segment"
	"github.com/drakos74/free-segments/internal/server"
)

const (
	scenario = "Annual Income (k$),Spending Score (1-100)\n15,39\n16,81\n"
	scored   = "Annual Income (k$),Spending Score (1-100),Cluster Label\n15,39,0\n16,81,2\n"
	renamed  = "income,Spending Score (1-100)\n15,39\n16,81\n"
)

func newScorer(t *testing.T) *segment.Scorer {
	scaler, err := artifact.NewScaler([]float64{50, 50}, []float64{10, 10})
	require.NoError(t, err)
	model, err := artifact.NewModel([][]float64{{-1, -1}, {1, 1}, {-1, 1}})
	require.NoError(t, err)
	set, err := artifact.NewSet(scaler, model)
	require.NoError(t, err)
	return segment.NewScorer(set)
}

func newHandler(t *testing.T) http.Handler {
	app := New(newScorer(t), metrics.New(), 0)
	return server.NewServer("test", 0).Add(app.Routes()...).Handler()
}

func multipartRequest(t *testing.T, path, field, content string) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, "customers.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := httptest.NewRequest("POST", path, &body)
	r.Header.Set("Content-Type", w.FormDataContentType())
	return r
}

func TestProcess_Stages(t *testing.T) {
	scorer := newScorer(t)

	type test struct {
		input  string
		stages []Stage
		code   int
	}

	tests := map[string]test{
		"done": {
			input:  scenario,
			stages: []Stage{NoFileUploaded, Validating, Scoring, Presenting, Done},
			code:   http.StatusOK,
		},
		"missing-columns": {
			input:  renamed,
			stages: []Stage{NoFileUploaded, Validating, ValidationFailed},
			code:   http.StatusUnprocessableEntity,
		},
		"non-numeric": {
			input:  "Annual Income (k$),Spending Score (1-100)\n15,high\n",
			stages: []Stage{NoFileUploaded, Validating, Scoring, Failed},
			code:   http.StatusUnprocessableEntity,
		},
		"malformed": {
			input:  "Annual Income (k$),Spending Score (1-100)\n15,39,1\n",
			stages: []Stage{NoFileUploaded, Validating, Failed},
			code:   http.StatusBadRequest,
		},
		"empty": {
			input:  "",
			stages: []Stage{NoFileUploaded, Validating, Failed},
			code:   http.StatusBadRequest,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := Process(scorer, name, strings.NewReader(tt.input))
			assert.Equal(t, tt.stages, res.Stages)
			assert.Equal(t, tt.stages[len(tt.stages)-1], res.Stage)
			assert.Equal(t, tt.code, res.Code())
			if res.Stage != Done {
				assert.Error(t, res.Err)
				assert.Nil(t, res.Output)
				assert.Nil(t, res.Centroids)
			}
		})
	}
}

func TestProcess_Done(t *testing.T) {
	scorer := newScorer(t)

	res := Process(scorer, "id", strings.NewReader(scenario))
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Output.Len())
	assert.Equal(t, []int{0, 2}, res.Labels)
	assert.Equal(t, scorer.K(), len(res.Centroids))
	assert.Equal(t, 2, len(res.Summary))

	b, err := res.Output.Bytes()
	require.NoError(t, err)
	assert.Equal(t, scored, string(b))
	assert.Equal(t, 3, len(strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")))
}

func TestApp_Index(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Customer Segmentation App")
	assert.Contains(t, body, "Upload a CSV file to get started.")
}

func TestApp_Upload(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, "/upload", FileField, scenario))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Data Preview")
	assert.Contains(t, body, "Customer Segments Scatter Plot")
	assert.Contains(t, body, "Centroids")
	assert.Contains(t, body, "Clustered Data with Labels")
	assert.Contains(t, body, "Cluster Label")
	assert.Contains(t, body, DownloadName)
	assert.Contains(t, body, base64.StdEncoding.EncodeToString([]byte(scored)))
	assert.Contains(t, body, "<td>0</td><td>1</td><td>15.00</td><td>15 - 15</td><td>0.00</td><td>39.00</td><td>39 - 39</td><td>0.00</td>")
	assert.NotContains(t, body, "Upload a CSV file to get started.")
}

func TestApp_UploadValidationFailed(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, "/upload", FileField, renamed))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Data Preview")
	assert.Contains(t, body, "CSV must contain columns")
	assert.NotContains(t, body, "Cluster Label")
	assert.NotContains(t, body, "Customer Segments Scatter Plot")
	assert.NotContains(t, body, DownloadName)
}

func TestApp_UploadNoFile(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, "/upload", "other", scenario))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrNoFile.Error())
}

func TestApp_Score(t *testing.T) {
	h := newHandler(t)

	type test struct {
		request func(t *testing.T) *http.Request
		code    int
		body    string
	}

	raw := func(content string) func(t *testing.T) *http.Request {
		return func(t *testing.T) *http.Request {
			r := httptest.NewRequest("POST", "/api/score", strings.NewReader(content))
			r.Header.Set("Content-Type", "text/csv")
			return r
		}
	}

	tests := map[string]test{
		"raw": {
			request: raw(scenario),
			code:    http.StatusOK,
			body:    scored,
		},
		"multipart": {
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/score", FileField, scenario)
			},
			code: http.StatusOK,
			body: scored,
		},
		"missing-columns": {
			request: raw(renamed),
			code:    http.StatusUnprocessableEntity,
		},
		"non-numeric": {
			request: raw("Annual Income (k$),Spending Score (1-100)\nabc,39\n"),
			code:    http.StatusUnprocessableEntity,
		},
		"malformed": {
			request: raw("Annual Income (k$),Spending Score (1-100)\n\"15,39\n"),
			code:    http.StatusBadRequest,
		},
		"no-body": {
			request: raw(""),
			code:    http.StatusBadRequest,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.request(t))
			assert.Equal(t, tt.code, rec.Code)
			if tt.code != http.StatusOK {
				assert.Empty(t, rec.Header().Get("Content-Disposition"))
				return
			}
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
			disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, DownloadName, params["filename"])
		})
	}
}

func TestApp_Centroids(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/centroids", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var centroids []segment.Centroid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &centroids))
	assert.Equal(t, []segment.Centroid{
		{Label: 0, Income: 40, Spending: 40},
		{Label: 1, Income: 60, Spending: 60},
		{Label: 2, Income: 40, Spending: 60},
	}, centroids)
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "no-file-uploaded", NoFileUploaded.String())
	assert.Equal(t, "validation-failed", ValidationFailed.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
