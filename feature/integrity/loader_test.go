package integrity

import (
	"testing"

	"asset-core/core/mapper"
	"asset-core/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	mockClient := new(mocks.Client)
	logger := zap.NewNop()
	// Pass nil db for this test as we don't access it unless we use the service
	feature := NewFeature(Options{
		Client:   mockClient,
		Bucket:   "test-bucket",
		Manifest: "manifests/assets.json",
		Mapper:   mapper.New(logger),
	}, logger)

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	err := feature.Load(app)
	assert.NoError(t, err)
}
