package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermercado/backend/internal/domain/shared"
	"github.com/supermercado/backend/internal/interfaces/http/dto"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewNotFoundError("Product", "x"), http.StatusNotFound, shared.CodeNotFound},
		{"validation", shared.NewValidationError("bad"), http.StatusBadRequest, shared.CodeValidation},
		{"wrapped business rule", fmt.Errorf("void: %w", shared.NewDomainError(shared.CodeBusinessRule, "too old")), http.StatusBadRequest, shared.CodeBusinessRule},
		{"entity code", shared.NewDomainError("INVALID_PRICE", "negative"), http.StatusBadRequest, "INVALID_PRICE"},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, shared.CodeForbidden},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, dto.ErrCodeInternal},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := newEngine()
			r.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			rec := doJSON(r, http.MethodGet, "/", nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}

	t.Run("unknown errors do not leak", func(t *testing.T) {
		h := &BaseHandler{}
		r := newEngine()
		r.GET("/", func(c *gin.Context) { h.HandleError(c, errors.New("password=secret")) })
		rec := doJSON(r, http.MethodGet, "/", nil)
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("canceled", func(t *testing.T) {
		h := &BaseHandler{}
		r := newEngine()
		r.GET("/", func(c *gin.Context) { h.HandleError(c, context.Canceled) })
		rec := doJSON(r, http.MethodGet, "/", nil)
		assert.Equal(t, statusClientClosedRequest, rec.Code)
	})
}

func TestBaseHandler_BindError(t *testing.T) {
	type payload struct {
		Name string `json:"nombre" binding:"required"`
	}
	h := &BaseHandler{}
	r := newEngine()
	r.POST("/", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			h.BindError(c, err)
		}
	})

	rec := doJSON(r, http.MethodPost, "/", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, shared.CodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "nombre", resp.Error.Details[0].Field)

	rec = doJSON(r, http.MethodPost, "/", `{"nombre":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, rec).Error.Code)
}
