package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"youth-health-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistrationApp() *fiber.App {
	app := fiber.New()
	SetupRegistrationRoutes(app,
		services.NewRegistrationService(nil),
		services.NewAnonymousScreeningService(nil))
	return app
}

func TestAnonymousSubmissionRejectsInvalidPayloads(t *testing.T) {
	app := newRegistrationApp()

	cases := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{`},
		{"missing screening_id", `{"total_score": 10, "personal_info": {"first_name": "A", "last_name": "B", "gender": "male", "age": 15, "country_code": "KE", "country_name": "Kenya"}}`},
		{"missing total_score", `{"screening_id": "s1", "personal_info": {"first_name": "A", "last_name": "B", "gender": "male", "age": 15, "country_code": "KE", "country_name": "Kenya"}}`},
		{"negative total_score", `{"screening_id": "s1", "total_score": -1, "personal_info": {"first_name": "A", "last_name": "B", "gender": "male", "age": 15, "country_code": "KE", "country_name": "Kenya"}}`},
		{"age out of range", `{"screening_id": "s1", "total_score": 10, "personal_info": {"first_name": "A", "last_name": "B", "gender": "male", "age": 9, "country_code": "KE", "country_name": "Kenya"}}`},
		{"bad gender", `{"screening_id": "s1", "total_score": 10, "personal_info": {"first_name": "A", "last_name": "B", "gender": "x", "age": 15, "country_code": "KE", "country_name": "Kenya"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/anonymous-screening-submissions", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)
		})
	}
}

func TestCreateRegistrationRequiresEventID(t *testing.T) {
	app := newRegistrationApp()

	req := httptest.NewRequest("POST", "/event-registrations", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestAdminRegistrationRoutesRequireAdminRole(t *testing.T) {
	app := newRegistrationApp()

	req := httptest.NewRequest("GET", "/admin/anonymous-screening-submissions", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}
