package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crm-service/internal/api/http"
	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// The service is wired with no pool and no repositories: if validation let a
// malformed date through to the store, these requests would hit the nil pool
// and surface a 500 instead of 400.
func newFollowUpApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	codec, err := auth.NewTokenCodec("fixture-secret", time.Hour)
	require.NoError(t, err)
	token, _, err := codec.Issue(domain.Identity{SubjectID: "acc-1", Role: domain.RoleStaff})
	require.NoError(t, err)

	customerService := service.NewCustomerService(service.CustomerDependencies{})
	handler := handlers.NewCustomersHandler(customerService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	middleware := auth.NewMiddleware(codec)
	app.Put("/customers/:customerID/follow-up", middleware.Handle, handler.SetFollowUp)

	return app, token
}

func TestSetFollowUpRejectsMalformedDates(t *testing.T) {
	app, token := newFollowUpApp(t)

	tests := []string{
		`{"follow_up_on": "15-06-2026"}`,
		`{"follow_up_on": "2026-13-40"}`,
		`{"follow_up_on": "soon"}`,
		`{"follow_up_on": ""}`,
	}

	for _, body := range tests {
		t.Run(body, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/customers/cust-1/follow-up", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var parsed struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(raw, &parsed))
			assert.Equal(t, apperrors.CodeInvalidInput, parsed.Error.Code)
		})
	}
}
