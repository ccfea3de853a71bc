package app_test

import (
	"bytes"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffragio/suffragio/internal/app"
	"github.com/suffragio/suffragio/internal/config"
	"github.com/suffragio/suffragio/internal/storage"
)

const testMaxUploadBytes = 1 << 20

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0}, 128)...)

func newTestApp(t *testing.T) (*echo.Echo, storage.Store) {
	t.Helper()

	cfg := config.Default()
	cfg.DBFilepath = filepath.Join(t.TempDir(), "db.sqlite")
	cfg.MaxUploadBytes = testMaxUploadBytes

	logger := slog.New(slog.DiscardHandler)
	store, err := storage.NewDB(t.Context(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return app.New(cfg, logger, store), store
}

func TestPages(t *testing.T) {
	t.Parallel()

	srv, _ := newTestApp(t)

	for _, path := range []string{
		"/",
		"/login",
		"/voters-registration",
		"/dashboard",
		"/parties-registration",
		"/vote",
		"/static/js/registration.js",
		"/static/css/style.css",
		"/robots.txt",
	} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestRegistration(t *testing.T) {
	t.Parallel()

	srv, store := newTestApp(t)

	t.Run("success creates voter and auth", func(t *testing.T) {
		rec := postRegistration(srv, registrationFields("alice"), "photo.png", pngBytes)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Registration complete")

		auth, err := store.GetAuthByName(t.Context(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", auth.UserName)
		assert.True(t, strings.HasPrefix(auth.PasswordHash, "$argon2id$"))

		voters, err := store.ListVotersByName(t.Context(), "alice")
		require.NoError(t, err)
		require.Len(t, voters, 1)
		assert.Equal(t, auth.UserID, voters[0].ID)
		assert.Equal(t, pngBytes, voters[0].Photo)
	})

	t.Run("hyphenated username registers", func(t *testing.T) {
		rec := postRegistration(srv, registrationFields("anne-marie"), "photo.png", pngBytes)
		require.Equal(t, http.StatusOK, rec.Code)

		voters, err := store.ListVotersByName(t.Context(), "anne-marie")
		require.NoError(t, err)
		assert.Len(t, voters, 1)
	})

	t.Run("duplicate username conflicts and leaves one row", func(t *testing.T) {
		rec := postRegistration(srv, registrationFields("alice"), "photo.png", pngBytes)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already taken")

		voters, err := store.ListVotersByName(t.Context(), "alice")
		require.NoError(t, err)
		assert.Len(t, voters, 1)
	})

	t.Run("missing photo is rejected before any write", func(t *testing.T) {
		rec := postRegistration(srv, registrationFields("bob"), "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assertNoVoter(t, store, "bob")
	})

	t.Run("renamed text file is rejected", func(t *testing.T) {
		rec := postRegistration(srv, registrationFields("carol"), "notes.jpg", []byte("not an image at all"))
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assertNoVoter(t, store, "carol")
	})

	t.Run("oversized photo is rejected", func(t *testing.T) {
		big := append(pngBytes, bytes.Repeat([]byte{0}, testMaxUploadBytes)...)
		rec := postRegistration(srv, registrationFields("dave"), "big.png", big)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assertNoVoter(t, store, "dave")
	})

	t.Run("missing required field is rejected", func(t *testing.T) {
		fields := registrationFields("erin")
		delete(fields, "last_name")
		rec := postRegistration(srv, fields, "photo.png", pngBytes)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assertNoVoter(t, store, "erin")
	})

	t.Run("unparseable date of birth is rejected", func(t *testing.T) {
		fields := registrationFields("frank")
		fields["dob"] = "01/02/2000"
		rec := postRegistration(srv, fields, "photo.png", pngBytes)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assertNoVoter(t, store, "frank")
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	srv, _ := newTestApp(t)

	rec := postRegistration(srv, registrationFields("alice"), "photo.png", pngBytes)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("correct credentials load the profile", func(t *testing.T) {
		rec := postLogin(srv, "alice", "S3cret!")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Ada")
		assert.Contains(t, body, "Lovelace")
		assert.Contains(t, body, "data:image/png;base64,")
		assert.NotContains(t, body, "$argon2id$")
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		wrongPassword := postLogin(srv, "alice", "wrong")
		unknownUser := postLogin(srv, "nobody", "S3cret!")

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
	})

	t.Run("empty submission is rejected the same way", func(t *testing.T) {
		rec := postLogin(srv, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	})
}

func registrationFields(userName string) map[string]string {
	return map[string]string{
		"first_name":  "Ada",
		"middle_name": "King",
		"last_name":   "Lovelace",
		"dob":         "1990-12-10",
		"user_name":   userName,
		"password":    "S3cret!",
	}
}

func postRegistration(srv *echo.Echo, fields map[string]string, filename string, photo []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		_ = writer.WriteField(name, value)
	}
	if filename != "" {
		part, _ := writer.CreateFormFile("user_image", filename)
		_, _ = part.Write(photo)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/voters-registration", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func postLogin(srv *echo.Echo, userName, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("user_name", userName)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func assertNoVoter(t *testing.T, store storage.Store, userName string) {
	t.Helper()
	voters, err := store.ListVotersByName(t.Context(), userName)
	require.NoError(t, err)
	assert.Empty(t, voters)

	_, err = store.GetAuthByName(t.Context(), userName)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
