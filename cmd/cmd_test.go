package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/file"
	"github.com/jsphweid/rhythmdex/measure"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/rhythm"
	"github.com/jsphweid/rhythmdex/sample"
)

var samplePage = sample.Options{Systems: 2, Parts: 2, Measures: 3}

func transcribeRequest(t *testing.T, body model.TranscribeRequestBody) *http.Request {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewReader(data))
}

func pageIDs(res model.PageResult) []int {
	var ids []int
	for _, st := range res.Stacks {
		ids = append(ids, st.PageID)
	}
	return ids
}

func TestHandleHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleTranscribe(t *testing.T) {
	w := httptest.NewRecorder()
	req := transcribeRequest(t, model.TranscribeRequestBody{Pages: []*model.Page{sample.Page(0, samplePage)}})
	HandleTranscribe(w, req)

	assert := assert.New(t)
	require.Equal(t, http.StatusOK, w.Code)
	var res model.TranscribeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Results, 1)
	assert.Equal("sample-0", res.Results[0].PageID)
	assert.Equal([]int{1, 2, 3, 4, 5, 6}, pageIDs(res.Results[0]))
	assert.Empty(res.Errors)
}

func TestHandleTranscribeContinuesNumbering(t *testing.T) {
	last := 10
	w := httptest.NewRecorder()
	req := transcribeRequest(t, model.TranscribeRequestBody{
		Pages:  []*model.Page{sample.Page(0, samplePage)},
		LastID: &last,
	})
	HandleTranscribe(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res model.TranscribeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, []int{11, 12, 13, 14, 15, 16}, pageIDs(res.Results[0]))
}

func TestHandleTranscribeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"no pages", `{"pages": []}`},
		{"null page", `{"pages": [null]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleTranscribe(w, httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewBufferString(tc.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var res model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestHandleTranscribeReportsFailedPages(t *testing.T) {
	w := httptest.NewRecorder()
	HandleTranscribe(w, transcribeRequest(t, model.TranscribeRequestBody{
		Pages: []*model.Page{{ID: "blank"}},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = httptest.NewRecorder()
	HandleTranscribe(w, transcribeRequest(t, model.TranscribeRequestBody{
		Pages: []*model.Page{sample.Page(0, samplePage), {ID: "blank"}},
	}))
	require.Equal(t, http.StatusOK, w.Code)
	var res model.TranscribeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Results, 1)
	assert.Len(t, res.Errors, 1)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/transcribe", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestInspectPrintsSlotsAndVoices(t *testing.T) {
	res, _, err := rhythm.TranscribePage(sample.Page(0, sample.Options{Systems: 1, Parts: 1, Measures: 1}),
		config.DefaultParams(), measure.IDState{}, "run")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, inspect(&buf, res))
	out := buf.String()
	assert.Contains(t, out, "measure 1")
	assert.Contains(t, out, "slot 4")
	assert.Contains(t, out, "#1/v1")
}

func writeSamplePage(t *testing.T, dir string) string {
	path := filepath.Join(dir, "page-0.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, file.WritePage(f, sample.Page(0, samplePage)))
	return path
}

func TestRebuildWritesResults(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "out")
	writeSamplePage(t, in)

	require.NoError(t, rebuild(context.Background(), in, out))

	data, err := os.ReadFile(filepath.Join(out, "result.json"))
	require.NoError(t, err)
	var res model.TranscribeResponse
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Len(t, res.Results, 1)
	assert.FileExists(t, filepath.Join(out, "preview.mid"))
}

func TestTranscribeCommand(t *testing.T) {
	dir := t.TempDir()
	writeSamplePage(t, dir)
	midiFile := filepath.Join(t.TempDir(), "preview.mid")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"transcribe", "--midi", midiFile, "--workers", "2", dir})
	require.NoError(t, rootCmd.Execute())

	var res model.TranscribeResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	require.Len(t, res.Results, 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, pageIDs(res.Results[0]))
	assert.FileExists(t, midiFile)
}
