package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renalscan/internal/analyze"
	"renalscan/internal/config"
	"renalscan/internal/detect"
	"renalscan/internal/mask"
	"renalscan/internal/segment"
)

func testServer(t *testing.T, m *mask.Mask) *Server {
	t.Helper()
	d := detect.New(segment.NewFixed(m), analyze.New(rand.New(rand.NewSource(1))), nil)
	return New(config.Default(), d, nil)
}

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 80
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestPredict_NoDetection(t *testing.T) {
	srv := testServer(t, nil)
	body, contentType := multipartUpload(t, "scan.png", encodeTestPNG(t, 64, 64))

	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		StoneDetected  bool    `json:"stone_detected"`
		SizePixels     int     `json:"size_pixels"`
		Location       string  `json:"location"`
		Confidence     float64 `json:"confidence"`
		ProcessedImage string  `json:"processed_image"`
		Report         string  `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.StoneDetected)
	assert.Equal(t, "None", resp.Location)
	assert.Contains(t, resp.Report, "No kidney stones were detected")

	// The processed image round-trips as a valid PNG at source resolution.
	raw, err := base64.StdEncoding.DecodeString(resp.ProcessedImage)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 64, decoded.Bounds().Dy())
}

func TestPredict_WithDetection(t *testing.T) {
	m, err := mask.New(64, 64)
	require.NoError(t, err)
	for y := 28; y <= 36; y++ {
		for x := 28; x <= 36; x++ {
			m.Set(x, y, true)
		}
	}
	srv := testServer(t, m)
	body, contentType := multipartUpload(t, "scan.png", encodeTestPNG(t, 64, 64))

	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp predictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.StoneDetected)
	assert.Equal(t, analyze.LocationMidKidney, resp.Location)
	require.NotNil(t, resp.Center)
	assert.Equal(t, 32, resp.Center.X)
	assert.Contains(t, resp.Report, "A kidney stone has been detected")
}

func TestPredict_RejectsBadExtension(t *testing.T) {
	srv := testServer(t, nil)
	body, contentType := multipartUpload(t, "scan.gif", encodeTestPNG(t, 16, 16))

	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid file type")
}

func TestPredict_RejectsMissingFile(t *testing.T) {
	srv := testServer(t, nil)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/predict", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no image file provided")
}

func TestPredict_RejectsUndecodableUpload(t *testing.T) {
	srv := testServer(t, nil)
	body, contentType := multipartUpload(t, "scan.png", []byte("not a png"))

	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to decode image")
}

func TestPredict_RejectsOversizedUpload(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxUploadBytes = 1024
	d := detect.New(segment.NewFixed(nil), analyze.New(rand.New(rand.NewSource(1))), nil)
	srv := New(cfg, d, nil)

	body, contentType := multipartUpload(t, "scan.png", make([]byte, 4096))
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := testServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPredict_MethodNotAllowed(t *testing.T) {
	srv := testServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/predict", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
