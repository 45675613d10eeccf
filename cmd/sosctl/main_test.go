package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "helpapp/internal/jwt_token"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// fakeServer records each request and answers with the given status and body.
func fakeServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &rec.Body))
		}
		seen = append(seen, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"sosctl"}, args...))
	return out.String(), err
}

func TestContactsAdd(t *testing.T) {
	srv, seen := fakeServer(t, http.StatusCreated, `{"id":"c1","name":"Alex"}`)

	out, err := runCLI(t, "--server", srv.URL, "--token", "tok",
		"contacts", "add", "--name", "Alex", "--number", "+15551234567")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/contacts", req.Path)
	assert.Equal(t, "Bearer tok", req.Auth)
	assert.Equal(t, "Alex", req.Body["name"])
	assert.Equal(t, "+15551234567", req.Body["number"])
	assert.Contains(t, out, `"name": "Alex"`)
}

func TestContactsImportReadsYAML(t *testing.T) {
	srv, seen := fakeServer(t, http.StatusCreated, `{"imported":[],"rejected":0}`)

	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`contacts:
  - name: Alex
    number: "+15551234567"
  - name: Sam
    number: "+15557654321"
`), 0o600))

	_, err := runCLI(t, "--server", srv.URL, "contacts", "import", path)
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	contacts, ok := (*seen)[0].Body["contacts"].([]any)
	require.True(t, ok)
	assert.Len(t, contacts, 2)
}

func TestContactsImportRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contacts: []\n"), 0o600))

	_, err := runCLI(t, "contacts", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lists no contacts")
}

func TestContactsRemoveValidatesID(t *testing.T) {
	_, err := runCLI(t, "contacts", "remove", "not-a-uuid")
	require.Error(t, err)
}

func TestSOSSurfacesPermissionAlert(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusForbidden,
		`{"error":"permission_denied","error_description":"Permissions are not granted."}`)

	_, err := runCLI(t, "--server", srv.URL, "sos")
	require.Error(t, err)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "permission_denied", apiErr.Code)
	assert.Contains(t, err.Error(), "Permissions are not granted.")
}

func TestDevicePermissionsSendsExplicitFlags(t *testing.T) {
	srv, seen := fakeServer(t, http.StatusOK, `{}`)

	_, err := runCLI(t, "--server", srv.URL, "device", "permissions", "--location")
	require.NoError(t, err)

	req := (*seen)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/device/permissions", req.Path)
	assert.Equal(t, true, req.Body["location"])
	assert.Equal(t, false, req.Body["sms"])
}

func TestNoticesPassesLimit(t *testing.T) {
	srv, seen := fakeServer(t, http.StatusOK, `{"notices":[]}`)

	_, err := runCLI(t, "--server", srv.URL, "notices", "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, "limit=5", (*seen)[0].Query)
}

func TestSignalDefaultsToSendSOS(t *testing.T) {
	srv, seen := fakeServer(t, http.StatusAccepted, `{"accepted":true,"fires":true}`)

	_, err := runCLI(t, "--server", srv.URL, "signal")
	require.NoError(t, err)
	assert.Equal(t, "sendSOS", (*seen)[0].Body["tag"])
}

func TestTokenIsAcceptedByServerValidator(t *testing.T) {
	out, err := runCLI(t, "token", "--device", "pixel-7", "--key", "k", "--ttl", "1h")
	require.NoError(t, err)

	svc := jwttoken.NewJWTService("k", "helpapp", "helpapp-device", time.Hour)
	claims, err := svc.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "pixel-7", claims.DeviceID)
}
