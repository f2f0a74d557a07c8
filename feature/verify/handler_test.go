package verify

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"sync-verifier/feature/verify/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(source SourceStore) *fiber.App {
	app := fiber.New()
	svc := newTestService(source, nil)
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func TestHandleVerify(t *testing.T) {
	app := setupTestApp(fixedSource(sampleRecords(3), nil))

	req := httptest.NewRequest("POST", "/verify", nil)
	resp, err := app.Test(req, 5000) // 5s timeout
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var report VerificationReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 3, report.TotalChecked)
	assert.Equal(t, 3, report.Matched)
}

func TestHandleVerifySourceUnavailable(t *testing.T) {
	app := setupTestApp(fixedSource(nil, ErrSourceUnavailable))

	req := httptest.NewRequest("POST", "/verify", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleLatestReportBeforeAnyRun(t *testing.T) {
	app := setupTestApp(fixedSource(nil, nil))

	req := httptest.NewRequest("GET", "/report/latest", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleLatestReportAfterRun(t *testing.T) {
	source := fixedSource([]models.SourceRecord{{
		ID: 1, CompanyName: "Acme", Title: "Engineer",
		ModifiedAt: time.Now(),
	}}, nil)
	svc := newTestService(source, nil)
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)

	req := httptest.NewRequest("GET", "/report/latest", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report VerificationReport
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 1, report.TotalChecked)
}
