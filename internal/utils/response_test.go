package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	apperrors "bidmart/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MapsDomainErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/conflict", func(c *fiber.Ctx) error { return Error(c, apperrors.ErrAlreadySettled) })
	app.Get("/internal", func(c *fiber.Ctx) error {
		return Error(c, fmt.Errorf("settle: %w: %w", apperrors.ErrInternal, errors.New("pq: relation missing")))
	})

	tests := []struct {
		path   string
		status int
		code   string
		msg    string
	}{
		{"/conflict", fiber.StatusConflict, "AUCTION_ALREADY_SETTLED", "auction has already been settled"},
		{"/internal", fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var out map[string]string
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tt.code, out["code"])
			assert.Equal(t, tt.msg, out["error"])
		})
	}
}

func TestGetPagination(t *testing.T) {
	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetPagination(c, 20, 100)
		return nil
	})

	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"?page=3&limit=10", Pagination{Page: 3, Limit: 10, Offset: 20}},
		{"?page=-1&limit=abc", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"?limit=500", Pagination{Page: 1, Limit: 100, Offset: 0}},
	}
	for _, tt := range tests {
		_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.query)
	}
}
