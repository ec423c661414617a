package storage

import (
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryPut(t *testing.T) {
	t.Run("signed upload round trip", func(t *testing.T) {
		var gotPublicID, gotTimestamp, gotSignature, gotAPIKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotPublicID = r.FormValue("public_id")
			gotTimestamp = r.FormValue("timestamp")
			gotSignature = r.FormValue("signature")
			gotAPIKey = r.FormValue("api_key")

			file, _, err := r.FormFile("file")
			require.NoError(t, err)
			file.Close()

			w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/raw/upload/v1700000000/Pliego-2024.pdf","public_id":"Pliego-2024"}`))
		}))
		defer server.Close()

		cl := NewCloudinary("demo", "key", "secret")
		cl.endpoint = server.URL

		url, err := cl.Put(context.Background(), File{
			Data:     []byte("%PDF-1.4"),
			Filename: "Pliego 2024.pdf",
		})
		require.NoError(t, err)
		assert.Contains(t, url, "Pliego-2024.pdf")
		assert.Equal(t, "Pliego-2024", gotPublicID)
		assert.Equal(t, "key", gotAPIKey)

		// Server-side signature check, same scheme the provider applies.
		payload := fmt.Sprintf("public_id=%s&timestamp=%s", gotPublicID, gotTimestamp)
		want := fmt.Sprintf("%x", sha1.Sum([]byte(payload+"secret")))
		assert.Equal(t, want, gotSignature)
	})

	t.Run("provider error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
		}))
		defer server.Close()

		cl := NewCloudinary("demo", "key", "wrong")
		cl.endpoint = server.URL

		_, err := cl.Put(context.Background(), File{Data: []byte("x"), Filename: "a.pdf"})
		assert.ErrorIs(t, err, ErrUploadFailed)
		assert.Contains(t, err.Error(), "Invalid Signature")
	})
}

func TestCloudinaryDelete(t *testing.T) {
	t.Run("derives public id from delivery url", func(t *testing.T) {
		var gotPublicID string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotPublicID = r.FormValue("public_id")
			w.Write([]byte(`{"result":"ok"}`))
		}))
		defer server.Close()

		cl := NewCloudinary("demo", "key", "secret")
		cl.endpoint = server.URL

		require.NoError(t, cl.Delete(context.Background(),
			"https://res.cloudinary.com/demo/raw/upload/v1700000000/Pliego-2024.pdf"))
		assert.Equal(t, "Pliego-2024", gotPublicID)
	})

	t.Run("versionless url", func(t *testing.T) {
		var gotPublicID string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotPublicID = r.FormValue("public_id")
			w.Write([]byte(`{"result":"ok"}`))
		}))
		defer server.Close()

		cl := NewCloudinary("demo", "key", "secret")
		cl.endpoint = server.URL

		require.NoError(t, cl.Delete(context.Background(),
			"https://res.cloudinary.com/demo/image/upload/foto-lote.jpg"))
		assert.Equal(t, "foto-lote", gotPublicID)
	})

	t.Run("unrecognized url is skipped without a request", func(t *testing.T) {
		cl := NewCloudinary("demo", "key", "secret")
		cl.endpoint = "http://127.0.0.1:1" // would fail if contacted
		assert.NoError(t, cl.Delete(context.Background(), "https://otro-cdn.example.com/archivo.pdf"))
	})

	t.Run("provider failure stays best effort", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		cl := NewCloudinary("demo", "key", "secret")
		cl.endpoint = server.URL
		assert.NoError(t, cl.Delete(context.Background(),
			"https://res.cloudinary.com/demo/raw/upload/v1/doc.pdf"))
	})
}
