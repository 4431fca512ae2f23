package system

import (
	"time"

	"github.com/l1jgo/simcore/internal/assets"
	coresys "github.com/l1jgo/simcore/internal/core/system"
)

// AssetSystem applies finished asset batches, activating the components
// that were waiting on them. Phase 1 (Load).
type AssetSystem struct {
	loader *assets.Loader
}

func NewAssetSystem(loader *assets.Loader) *AssetSystem {
	return &AssetSystem{loader: loader}
}

func (s *AssetSystem) Phase() coresys.Phase { return coresys.PhaseLoad }

func (s *AssetSystem) Update(_ time.Duration) {
	s.loader.Poll()
}
