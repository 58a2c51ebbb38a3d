package lifecycle

import (
	"github.com/melih-ucgun/shopsnap/internal/adapters/docker"
	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/state"
)

// Guard stops the compose services of a shop around a destructive subvolume
// operation. Both directions are best effort.
type Guard struct {
	Containers docker.ContainerManager
}

func NewGuard(c docker.ContainerManager) *Guard {
	return &Guard{Containers: c}
}

// Stop brings the services of dir down and reports whether dir has a
// compose manifest. A failed stop is only a warning.
func (g *Guard) Stop(ctx *core.SystemContext, dir string, tx *state.Transaction) bool {
	p := out(ctx)
	manifest, ok := g.Containers.Manifest(ctx, dir)
	if !ok {
		p.Info("No compose manifest in %s, skipping container stop/start", dir)
		return false
	}
	if ctx.DryRun {
		p.DryRun("docker compose -f %s down", manifest)
		return true
	}
	p.Info("Stopping containers in %s", dir)
	err := g.Containers.Stop(ctx, dir)
	if err != nil {
		p.Warn("Failed to stop containers in %s: %v", dir, err)
	}
	if tx != nil {
		tx.Record("stop", dir, "", err)
	}
	return true
}

// Start brings the services of dir back up when managed is set, i.e. when
// Stop found a manifest. A failed start is only a warning.
func (g *Guard) Start(ctx *core.SystemContext, dir string, managed bool, tx *state.Transaction) {
	if !managed {
		return
	}
	p := out(ctx)
	if ctx.DryRun {
		p.DryRun("docker compose up -d in %s", dir)
		return
	}
	p.Info("Starting containers in %s", dir)
	err := g.Containers.Start(ctx, dir)
	if err != nil {
		p.Warn("Failed to start containers in %s: %v", dir, err)
	}
	if tx != nil {
		tx.Record("start", dir, "", err)
	}
}
