package workbench

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/workbench/session"
)

const testUserHeader = "X-Test-User"

type apiClient struct {
	t      *testing.T
	router http.Handler
	user   string
}

func newAPI(t *testing.T, f *fixture) *apiClient {
	t.Helper()

	handler := NewHandler(f.controller, session.NewMemoryStore[ViewState](time.Hour))

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if user := request.Header.Get(testUserHeader); user != "" {
				claims := &sec.AuthClaims{UserID: user, Role: string(sec.RoleEditor)}
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		})
	})
	handler.RegisterRoutes(router)

	return &apiClient{t: t, router: router, user: "u1"}
}

func (c *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, path, nil)
	} else {
		request = httptest.NewRequest(method, path, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		request.Header.Set(testUserHeader, c.user)
	}

	recorder := httptest.NewRecorder()
	c.router.ServeHTTP(recorder, request)
	return recorder
}

func decodeState(t *testing.T, recorder *httptest.ResponseRecorder) ViewState {
	t.Helper()

	var envelope struct {
		Data ViewState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope), recorder.Body.String())
	return envelope.Data
}

func (c *apiClient) open() ViewState {
	c.t.Helper()
	recorder := c.do(http.MethodPost, "/sessions", "")
	require.Equal(c.t, http.StatusCreated, recorder.Code, recorder.Body.String())
	return decodeState(c.t, recorder)
}

func TestHTTP_AuthorRoundTrip(t *testing.T) {
	f := newFixture(t, DeleteSoft, newFakeAuthors(), newFakeBooks())
	api := newAPI(t, f)

	opened := api.open()
	require.NotEmpty(t, opened.SessionID)
	assert.Equal(t, "u1", opened.Owner)
	base := "/sessions/" + opened.SessionID

	recorder := api.do(http.MethodPost, base+"/authors/dialog/add", "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.True(t, decodeState(t, recorder).AuthorDialog.Dialog.IsOpen())

	recorder = api.do(http.MethodPost, base+"/authors/dialog/confirm", `{"name":"Ann Leckie","bio":"SF author"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	state := decodeState(t, recorder)
	assert.Equal(t, []string{"Author created successfully!"}, messageTexts(state))
	require.Len(t, state.Authors, 1)

	authorID := state.Authors[0].ID
	recorder = api.do(http.MethodPut, base+"/authors/selection", `{"ids":["`+authorID+`"]}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{authorID}, decodeState(t, recorder).SelectedAuthorIDs)

	recorder = api.do(http.MethodPost, base+"/authors/delete", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	pending := decodeState(t, recorder).Pending
	require.NotNil(t, pending)

	recorder = api.do(http.MethodPost, base+"/confirmation", `{"id":"`+pending.ID+`","action":"OK"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	state = decodeState(t, recorder)
	assert.Empty(t, state.Authors)
	assert.Nil(t, state.Pending)

	recorder = api.do(http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	persisted := decodeState(t, recorder)
	assert.Empty(t, persisted.Authors)
	assert.Equal(t, []string{"Author soft-deleted successfully!"}, messageTexts(persisted))
}

func TestHTTP_DialogSurvivesBetweenRequests(t *testing.T) {
	f := newFixture(t, DeleteSoft, newFakeAuthors(), newFakeBooks())
	api := newAPI(t, f)
	base := "/sessions/" + api.open().SessionID

	api.do(http.MethodPost, base+"/authors/dialog/add", "")
	recorder := api.do(http.MethodPost, base+"/authors/dialog/add", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 2, decodeState(t, recorder).AuthorDialog.Dialog.OpenCount)
	assert.Equal(t, 1, f.host.calls[AuthorFragment])
}

func TestHTTP_BookStockState(t *testing.T) {
	f := newFixture(t, DeleteSoft, newFakeAuthors(leckie()), newFakeBooks(ancillary()))
	api := newAPI(t, f)
	base := "/sessions/" + api.open().SessionID

	recorder := api.do(http.MethodPut, base+"/authors/selection", `{"ids":["a1"]}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var raw struct {
		Data struct {
			Books []map[string]any `json:"books"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &raw))
	require.Len(t, raw.Data.Books, 1)
	assert.Equal(t, "low", raw.Data.Books[0]["stock_state"])
	assert.Equal(t, "Warning", raw.Data.Books[0]["value_state"])
}

func TestHTTP_Errors(t *testing.T) {
	f := newFixture(t, DeleteSoft, newFakeAuthors(), newFakeBooks())
	api := newAPI(t, f)
	base := "/sessions/" + api.open().SessionID

	t.Run("anonymous", func(t *testing.T) {
		anonymous := &apiClient{t: t, router: api.router}
		assert.Equal(t, http.StatusUnauthorized, anonymous.do(http.MethodGet, base, "").Code)
		assert.Equal(t, http.StatusUnauthorized, anonymous.do(http.MethodPost, "/sessions", "").Code)
	})

	t.Run("other user", func(t *testing.T) {
		intruder := &apiClient{t: t, router: api.router, user: "u2"}
		assert.Equal(t, http.StatusForbidden, intruder.do(http.MethodGet, base, "").Code)
		assert.Equal(t, http.StatusForbidden, intruder.do(http.MethodDelete, base, "").Code)
	})

	t.Run("malformed session id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/sessions/not-a-uuid", "").Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		path := "/sessions/0190f5a4-7c2e-7d3a-9b1e-3f4a5b6c7d8e"
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, "").Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, base+"/authors/selection", `{"ids":`).Code)
	})

	t.Run("invalid action", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, base+"/confirmation", `{"action":"MAYBE"}`).Code)
	})
}

func TestHTTP_CloseSession(t *testing.T) {
	f := newFixture(t, DeleteSoft, newFakeAuthors(), newFakeBooks())
	api := newAPI(t, f)
	base := "/sessions/" + api.open().SessionID

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, base, "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, base, "").Code)
}
