package cmd_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercuri/cmd"
	httpapi "mercuri/internal/adapters/in/http"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/observability"
	"mercuri/internal/pkg/logging"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) cmd.Config {
	t.Helper()
	cfg, err := cmd.ConfigFromEnv(env(map[string]string{
		"STORE_DRIVER":            cmd.StoreMemory,
		"REAPER_INTERVAL":         "1s",
		"DISPATCH_RETRY_INTERVAL": "10ms",
	}))
	require.NoError(t, err)
	return cfg
}

func TestCompositionRoot_PostgresNeedsDatabase(t *testing.T) {
	cfg, err := cmd.ConfigFromEnv(env(nil))
	require.NoError(t, err)

	_, err = cmd.NewCompositionRoot(cfg, nil, logging.NewLoggerTo(io.Discard, "error"))
	assert.Error(t, err)
}

func TestCompositionRoot_MemoryStoreHasNoReadModel(t *testing.T) {
	app, err := cmd.NewCompositionRoot(memoryConfig(t), nil, logging.NewLoggerTo(io.Discard, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	h := app.CreateHTTPHandlers()
	assert.NotNil(t, h.CreateOrder)
	assert.NotNil(t, h.AcceptOffer)
	assert.Nil(t, h.GetOrder)
	assert.Nil(t, h.GetOfferHistory)
}

func TestCompositionRoot_CreatedOrderIsDispatchedToNearbyRider(t *testing.T) {
	app, err := cmd.NewCompositionRoot(memoryConfig(t), nil, logging.NewLoggerTo(io.Discard, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	jm := app.CreateJobManager()
	require.NoError(t, jm.StartAll())
	t.Cleanup(jm.StopAll)

	e := echo.New()
	app.CreateHTTPServer().Register(e)

	call := func(method, path, body string, user kernel.UUID, role offer.Role) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(httpapi.HeaderUserID, user.String())
		req.Header.Set(httpapi.HeaderUserRole, string(role))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rider := kernel.NewUUID()
	require.Equal(t, http.StatusCreated, call(http.MethodPost, "/api/v1/riders", "", rider, offer.RoleRider).Code)
	rec := call(http.MethodPut, "/api/v1/riders/"+rider.String()+"/location",
		`{"latitude":6.7001,"longitude":6.7001}`, rider, offer.RoleRider)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	before := testutil.ToFloat64(observability.OffersDispatched)

	rec = call(http.MethodPost, "/api/v1/orders", `{
		"pickup": {"latitude": 6.70, "longitude": 6.70},
		"dropoff": {"latitude": 6.75, "longitude": 6.72},
		"item_category": "food", "item_type": "box", "suggested_cost": "1500"
	}`, kernel.NewUUID(), offer.RoleCustomer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created httpapi.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(observability.OffersDispatched) >= before+1
	}, 2*time.Second, 10*time.Millisecond)
}
