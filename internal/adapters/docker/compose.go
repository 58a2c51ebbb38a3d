package docker

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/melih-ucgun/shopsnap/internal/core"
)

// ContainerManager stops and starts the services of a shop directory.
type ContainerManager interface {
	// Manifest returns the compose file of dir, if one exists
	Manifest(ctx *core.SystemContext, dir string) (string, bool)
	Stop(ctx *core.SystemContext, dir string) error
	Start(ctx *core.SystemContext, dir string) error
}

// Compose drives "docker compose" against the manifest found in a shop directory.
type Compose struct {
	// Files are the accepted manifest names, first match wins
	Files []string
}

func NewCompose(files []string) *Compose {
	if len(files) == 0 {
		files = []string{"docker-compose.yml"}
	}
	return &Compose{Files: files}
}

func (c *Compose) Manifest(ctx *core.SystemContext, dir string) (string, bool) {
	for _, name := range c.Files {
		p := filepath.Join(dir, name)
		if info, err := ctx.FS.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Stop runs "docker compose down" for dir.
func (c *Compose) Stop(ctx *core.SystemContext, dir string) error {
	return c.run(ctx, dir, "down")
}

// Start runs "docker compose up -d" for dir.
func (c *Compose) Start(ctx *core.SystemContext, dir string) error {
	return c.run(ctx, dir, "up", "-d")
}

func (c *Compose) run(ctx *core.SystemContext, dir string, args ...string) error {
	manifest, ok := c.Manifest(ctx, dir)
	if !ok {
		return fmt.Errorf("no compose manifest in %s", dir)
	}
	full := append([]string{"compose", "--project-directory", dir, "-f", manifest}, args...)
	out, err := ctx.Exec(core.Command("docker", full...))
	if err != nil {
		if out = strings.TrimSpace(out); out != "" {
			return fmt.Errorf("docker compose %s: %w: %s", strings.Join(args, " "), err, out)
		}
		return fmt.Errorf("docker compose %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func (c *Compose) IsAvailable(ctx *core.SystemContext) bool {
	_, err := ctx.Exec("docker compose version")
	return err == nil
}
