package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

// Registration rejects bad input before any storage access, returning
// every violated rule in one response.
func TestRegisterPendingUserReturnsAllViolations(t *testing.T) {
	h := NewApprovalHandler(nil, 10) // validation fails before the repo is touched

	rec := postJSON(t, h.RegisterPendingUser,
		`{"user_id":"","name":"","unit":"A-1","phone":"012","password":"weak"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Message    string   `json:"message"`
		Violations []string `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// user_id missing, name missing, and several password rules at once.
	assert.GreaterOrEqual(t, len(resp.Violations), 4)
	assert.NotEmpty(t, resp.Message)
}

func TestRegisterPendingUserRejectsMalformedBody(t *testing.T) {
	h := NewApprovalHandler(nil, 10)
	rec := postJSON(t, h.RegisterPendingUser, `{"user_id": 42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// The public creation path never honors a role in the payload, and the
// admin path rejects roles outside the closed set, both before any
// write happens.
func TestRegisterUserRejectsUnknownRole(t *testing.T) {
	h := NewUserHandler(nil, 10)
	rec := postJSON(t, h.RegisterUser,
		`{"user_id":"eve01","name":"Eve","unit":"B-2","phone":"0123","password":"GoodPass99","role":"superuser"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "role must be")
}

// A request that skipped TokenAuth has no identity and must be turned
// away, not treated as some default role.
func TestRegisterVisitorWithoutIdentity(t *testing.T) {
	h := NewVisitorHandler(nil, nil)
	rec := postJSON(t, h.RegisterVisitor,
		`{"ref_num":"V001","name":"Bob","IC_num":"990101-14-5678"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
