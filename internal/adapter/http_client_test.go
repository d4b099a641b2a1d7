// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/models"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) RemoteMenuAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPMenuAdapter(HTTPClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, logger.Nop())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "owner-1"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestHTTPMenuAdapter_CreateItem(t *testing.T) {
	var gotAuth string
	var gotPayload models.MenuItemUpload

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/menu/items", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("payload")), &gotPayload))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"id":"S100"}}`))
	})
	a.SetToken("session-token")

	serverID, err := a.CreateItem(context.Background(), models.MenuItemUpload{
		LocalID: "L1", OwnerID: "o1", Name: "Soup", Price: "120",
		SpiceLevel: "mild", Dietary: "veg", Status: "active",
	})
	require.NoError(t, err)

	assert.Equal(t, "S100", serverID)
	assert.Equal(t, "Bearer session-token", gotAuth)
	assert.Equal(t, "Soup", gotPayload.Name)
	assert.Equal(t, "L1", gotPayload.LocalID)
}

func TestHTTPMenuAdapter_CreateItem_AttachesImageParts(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "soup.jpg")
	require.NoError(t, os.WriteFile(imgPath, []byte("jpeg-bytes"), 0o644))

	var gotImage []byte
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("image_0")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "soup.jpg", header.Filename)
		gotImage, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Write([]byte(`{"success":true,"data":{"id":"S100"}}`))
	})

	_, err := a.CreateItem(context.Background(), models.MenuItemUpload{
		Name:   "Soup",
		Images: []models.ImageUpload{{Ref: imgPath, Position: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), gotImage)
}

func TestHTTPMenuAdapter_AttachImages_ReturnsOpenedFilesForClosing(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "naan.jpg")
	require.NoError(t, os.WriteFile(imgPath, []byte("x"), 0o644))

	a := NewHTTPMenuAdapter(HTTPClientConfig{BaseURL: "http://localhost"}, logger.Nop()).(*httpMenuAdapter)
	req := a.client.R()

	files := a.attachImages(req, []models.ImageUpload{
		{Ref: imgPath},
		{Ref: filepath.Join(dir, "missing.jpg")}, // unreadable: skipped, never opened
	})
	require.Len(t, files, 1)

	closeFiles(files)
	require.Error(t, files[0].Close(), "file must already be closed after closeFiles")
}

func TestHTTPMenuAdapter_CreateItem_EnvelopeRejection(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":false,"message":"duplicate item name"}`))
	})

	_, err := a.CreateItem(context.Background(), models.MenuItemUpload{Name: "Soup"})
	require.ErrorIs(t, err, ErrRemoteRejected)
	assert.Contains(t, err.Error(), "duplicate item name")
}

func TestHTTPMenuAdapter_Unauthorized(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := a.CreateItem(context.Background(), models.MenuItemUpload{Name: "Soup"})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPMenuAdapter_UpdateItem(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/menu/items/S42", r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	})

	err := a.UpdateItem(context.Background(), models.MenuItemUpload{ServerID: "S42", Name: "Dal"})
	require.NoError(t, err)
}

func TestHTTPMenuAdapter_UpdateItem_RequiresServerID(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	err := a.UpdateItem(context.Background(), models.MenuItemUpload{Name: "Dal"})
	require.Error(t, err)
}

func TestHTTPMenuAdapter_DeleteItem(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/menu/items/S42", r.URL.Path)
		require.Equal(t, "o1", r.URL.Query().Get("owner_id"))
		w.Write([]byte(`{"success":true}`))
	})

	require.NoError(t, a.DeleteItem(context.Background(), "o1", "S42"))
}

func TestHTTPMenuAdapter_FetchCategories(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/menu/categories", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":[
			{"id":"c1","name":"Starters","status":"active"},
			{"id":"c2","name":"Desserts","status":"active"}
		]}`))
	})

	entries, err := a.FetchCategories(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Starters", entries[0].Name)
}

func TestHTTPMenuAdapter_SessionValid(t *testing.T) {
	a := NewHTTPMenuAdapter(HTTPClientConfig{BaseURL: "http://localhost"}, logger.Nop())

	assert.False(t, a.SessionValid(), "no token")

	a.SetToken("not-a-jwt")
	assert.False(t, a.SessionValid(), "malformed token")

	a.SetToken(signedToken(t, time.Now().Add(-time.Hour)))
	assert.False(t, a.SessionValid(), "expired token")

	a.SetToken(signedToken(t, time.Now().Add(time.Hour)))
	assert.True(t, a.SessionValid(), "live token")

	a.SetToken(signedToken(t, time.Time{}))
	assert.True(t, a.SessionValid(), "token without expiry")
}

func TestMapAPIError_PlainBody(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	err := a.DeleteItem(context.Background(), "o1", "S1")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "502"))
	assert.True(t, strings.Contains(err.Error(), "upstream unavailable"))
}
