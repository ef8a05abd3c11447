package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/door"
	"github.com/pixil98/go-realm/internal/mob"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/storage"
	"github.com/pixil98/go-realm/internal/world"
)

type StorageConfig struct {
	Players AssetConfig[*player.Record] `json:"players"`
	Maps    AssetConfig[*world.MapSpec] `json:"maps"`
	Doors   AssetConfig[*door.Door]     `json:"doors"`
	Mobs    AssetConfig[*mob.Spec]      `json:"mobs"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Players.Validate("players"))
	el.Add(c.Maps.Validate("maps"))
	el.Add(c.Doors.Validate("doors"))
	el.Add(c.Mobs.Validate("mobs"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
