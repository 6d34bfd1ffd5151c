package presenter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/totegamma/rdmc-registry/internal/domain"
)

func TestError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", domain.ValidationError{Message: "external_id is required"}, http.StatusBadRequest, `{"error":"external_id is required"}`},
		{"wrapped validation", errors.Wrap(domain.ValidationError{Message: "orcid or email is required"}, "find"), http.StatusBadRequest, `{"error":"orcid or email is required"}`},
		{"wrapped not found", errors.Wrap(domain.NotFoundError{Resource: "rdmc"}, "get"), http.StatusNotFound, `{"error":"rdmc not found"}`},
		{"conflict", errors.Wrap(domain.ConflictError{Resource: "rdmc", Reason: "duplicated key"}, "save"), http.StatusConflict, `{"error":"save: rdmc conflict: duplicated key"}`},
		{"other", errors.New("boom"), http.StatusInternalServerError, `{"error":"boom"}`},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			assert.NoError(t, Error(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestBadRequest(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/rdmcs", nil), rec)

	assert.NoError(t, BadRequest(c, errors.New("invalid request body")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
}
