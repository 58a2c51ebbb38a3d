package docker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/transport/transporttest"
)

func newTestContext() (*core.SystemContext, *transporttest.MockTransport) {
	mockTr := transporttest.NewMockTransport()
	return &core.SystemContext{
		Context:   context.Background(),
		Transport: mockTr,
		FS:        mockTr.GetFileSystem(),
	}, mockTr
}

func TestCompose_Manifest(t *testing.T) {
	ctx, mockTr := newTestContext()
	mockTr.FS.AddFile("/shops/shop1/compose.yaml")
	mockTr.FS.AddDir("/shops/shop2/docker-compose.yml") // a directory, not a manifest
	mockTr.FS.AddDir("/shops/shop3")

	c := NewCompose([]string{"docker-compose.yml", "compose.yaml"})

	p, ok := c.Manifest(ctx, "/shops/shop1")
	assert.True(t, ok)
	assert.Equal(t, "/shops/shop1/compose.yaml", p)

	_, ok = c.Manifest(ctx, "/shops/shop2")
	assert.False(t, ok)

	_, ok = c.Manifest(ctx, "/shops/shop3")
	assert.False(t, ok)
}

func TestCompose_StopStart(t *testing.T) {
	ctx, mockTr := newTestContext()
	mockTr.FS.AddFile("/shops/shop1/docker-compose.yml")
	c := NewCompose(nil)

	assert.NoError(t, c.Stop(ctx, "/shops/shop1"))
	assert.NoError(t, c.Start(ctx, "/shops/shop1"))

	assert.Equal(t, []string{
		"docker compose --project-directory /shops/shop1 -f /shops/shop1/docker-compose.yml down",
		"docker compose --project-directory /shops/shop1 -f /shops/shop1/docker-compose.yml up -d",
	}, mockTr.Commands)
}

func TestCompose_Errors(t *testing.T) {
	ctx, mockTr := newTestContext()
	c := NewCompose(nil)

	err := c.Stop(ctx, "/shops/none")
	assert.Error(t, err, "no manifest")
	assert.Empty(t, mockTr.Commands)

	mockTr.FS.AddFile("/shops/shop1/docker-compose.yml")
	mockTr.AddError("docker compose --project-directory /shops/shop1 -f /shops/shop1/docker-compose.yml up -d", "port is already allocated", errors.New("exit status 1"))

	err = c.Start(ctx, "/shops/shop1")
	assert.ErrorContains(t, err, "port is already allocated")
}

func TestCompose_IsAvailable(t *testing.T) {
	ctx, mockTr := newTestContext()
	c := NewCompose(nil)
	assert.True(t, c.IsAvailable(ctx))

	mockTr.AddError("docker compose version", "docker: 'compose' is not a docker command.", nil)
	assert.False(t, c.IsAvailable(ctx))
}
