package assets

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	assetcache "asset-core/core/assets"
	"asset-core/core/identity"
	"asset-core/core/mapper"
	"asset-core/core/resource"
	"asset-core/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, capacity int, readOnly bool) (*fiber.App, *Service, *mocks.Client, *mapper.Map) {
	t.Helper()
	mockClient := new(mocks.Client)
	m := mapper.New(zap.NewNop())

	cache, err := assetcache.New(assetcache.Config{Capacity: capacity},
		resource.ObjectLoader(mockClient, "test-bucket", ""), zap.NewNop())
	require.NoError(t, err)

	feature := NewFeature(cache, m, readOnly, zap.NewNop())
	assert.Equal(t, "assets", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, feature.Service(), mockClient, m
}

func stubObject(c *mocks.Client, name, content string) {
	c.On("GetObject", mock.Anything, "test-bucket", name, mock.Anything).
		Return(io.NopCloser(strings.NewReader(content)), nil)
}

func pinRequest(path string) *http.Request {
	body, _ := json.Marshal(PinRequest{Path: path})
	req := httptest.NewRequest("POST", "/assets/pins", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandlePin_Lifecycle(t *testing.T) {
	app, svc, mockClient, m := setupTestApp(t, 4, false)
	stubObject(mockClient, "textures/wall.png", "pixels")

	resp, err := app.Test(pinRequest("textures/wall.png"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var pin Pin
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pin))
	assert.Equal(t, "textures/wall.png", pin.Path)
	assert.Equal(t, 6, pin.Size)

	id, ok := m.GetIdentity("textures/wall.png")
	require.True(t, ok, "pinning assigns an identity")
	assert.Equal(t, id, pin.GUID)

	// A second pin shares the cached blob.
	resp, err = app.Test(pinRequest("textures/wall.png"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	mockClient.AssertNumberOfCalls(t, "GetObject", 1)
	assert.Len(t, svc.Pins(), 2)

	resp, err = app.Test(httptest.NewRequest("GET", "/assets", nil))
	require.NoError(t, err)
	var overview Overview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&overview))
	assert.Equal(t, 1, overview.Stats.Entries)
	require.Len(t, overview.Entries, 1)
	assert.EqualValues(t, 2, overview.Entries[0].References)

	for _, p := range svc.Pins() {
		resp, err = app.Test(httptest.NewRequest("DELETE", "/assets/pins/"+p.ID, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/assets/refresh", nil))
	require.NoError(t, err)
	var refreshed map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&refreshed))
	assert.Equal(t, 1, refreshed["evicted"])
	assert.Equal(t, 0, svc.Overview().Stats.Entries)
}

func TestHandlePin_Errors(t *testing.T) {
	t.Run("MissingPath", func(t *testing.T) {
		app, _, _, _ := setupTestApp(t, 4, false)
		resp, err := app.Test(pinRequest(""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnmappedInReadOnly", func(t *testing.T) {
		app, _, mockClient, m := setupTestApp(t, 4, true)
		resp, err := app.Test(pinRequest("textures/new.png"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.False(t, m.ContainsPath("textures/new.png"))
		mockClient.AssertNotCalled(t, "GetObject")
	})

	t.Run("LoadFailure", func(t *testing.T) {
		app, _, mockClient, m := setupTestApp(t, 4, false)
		mockClient.On("GetObject", mock.Anything, "test-bucket", "gone.bin", mock.Anything).
			Return(nil, errors.New("no such key"))

		resp, err := app.Test(pinRequest("gone.bin"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
		assert.False(t, m.ContainsPath("gone.bin"), "failed pins must not register an identity")
		assert.Zero(t, m.Len())
	})

	t.Run("LoadFailureKeepsExistingMapping", func(t *testing.T) {
		app, _, mockClient, m := setupTestApp(t, 4, false)
		id := m.Assign("gone.bin")
		mockClient.On("GetObject", mock.Anything, "test-bucket", "gone.bin", mock.Anything).
			Return(nil, errors.New("no such key"))

		resp, err := app.Test(pinRequest("gone.bin"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

		current, ok := m.GetIdentity("gone.bin")
		require.True(t, ok)
		assert.Equal(t, id, current)
	})

	t.Run("CacheFull", func(t *testing.T) {
		app, _, mockClient, m := setupTestApp(t, 1, false)
		stubObject(mockClient, "a.bin", "a")
		stubObject(mockClient, "b.bin", "b")

		resp, err := app.Test(pinRequest("a.bin"))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		resp, err = app.Test(pinRequest("b.bin"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
		assert.False(t, m.ContainsPath("b.bin"))
		assert.Equal(t, 1, m.Len())
	})
}

func TestService_PinPathConcurrentRegistration(t *testing.T) {
	_, svc, mockClient, m := setupTestApp(t, 4, false)
	winner := identity.New()

	// Another request maps the path while this pin is still loading.
	mockClient.On("GetObject", mock.Anything, "test-bucket", "race.png", mock.Anything).
		Run(func(mock.Arguments) { m.SetPath("race.png", winner) }).
		Return(io.NopCloser(strings.NewReader("first")), nil).Once()
	stubObject(mockClient, "race.png", "second")

	pin, err := svc.PinPath(t.Context(), "race.png")
	require.NoError(t, err)
	assert.Equal(t, winner, pin.GUID)
	assert.Equal(t, 6, pin.Size)
	assert.Equal(t, 1, m.Len())

	// The discarded load is unreferenced and goes on the next refresh.
	assert.Equal(t, 2, svc.Overview().Stats.Entries)
	assert.Equal(t, 1, svc.Refresh())
}

func TestHandleUnpin_NotFound(t *testing.T) {
	app, _, _, _ := setupTestApp(t, 4, false)
	resp, err := app.Test(httptest.NewRequest("DELETE", "/assets/pins/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestService_Close(t *testing.T) {
	_, svc, mockClient, _ := setupTestApp(t, 4, false)
	stubObject(mockClient, "a.bin", "a")

	_, err := svc.PinPath(t.Context(), "a.bin")
	require.NoError(t, err)

	svc.Close()
	assert.Empty(t, svc.Pins())
	assert.Equal(t, 1, svc.Refresh())
}
