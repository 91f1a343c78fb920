package memory

import (
	"testing"

	"github.com/louisbranch/provenance/internal/services/provenance/state"
	"github.com/louisbranch/provenance/internal/services/provenance/state/statetest"
)

func TestStore(t *testing.T) {
	t.Parallel()

	statetest.Run(t, func(t *testing.T) state.Store {
		return New()
	})
}
