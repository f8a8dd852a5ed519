package source

import (
	"log/slog"
	"sync/atomic"

	"meridian-hq/lexgate/pkg/statute"
)

// Catalog holds the currently loaded statute set behind an atomic pointer.
// Readers always observe a complete, validated set; a failed reload keeps
// the previous set in place.
type Catalog struct {
	loader *Loader
	path   string
	logger *slog.Logger

	current atomic.Pointer[statute.Set]
}

// NewCatalog loads the catalog at path and returns it ready for reads.
func NewCatalog(loader *Loader, path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{
		loader: loader,
		path:   path,
		logger: logger.With("component", "statute.catalog"),
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Current returns the active statute set. The set is immutable; callers may
// hold it across a reload and keep a consistent view.
func (c *Catalog) Current() *statute.Set {
	return c.current.Load()
}

// Reload loads the catalog from disk and swaps it in. On error the active
// set is unchanged.
func (c *Catalog) Reload() error {
	set, err := c.loader.Load(c.path)
	if err != nil {
		c.logger.Error("catalog reload failed", "path", c.path, "error", err)
		return err
	}
	old := c.current.Swap(set)
	if old != nil {
		c.logger.Info("catalog reloaded",
			"path", c.path,
			"statutes", set.Len(),
			"previous_statutes", old.Len(),
		)
	}
	return nil
}

// Statute returns the statute with the given id from the active set. It
// satisfies the resolver's lookup interface.
func (c *Catalog) Statute(id string) (*statute.Statute, bool) {
	return c.Current().Statute(id)
}
