// internal/storage/storage_test.go
package storage_test

import (
	"testing"
	"time"

	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	info := storage.Info(core.Snapshot{
		ID:             "id-1",
		Name:           "friday",
		CreatedAt:      created,
		Vendors:        []core.Vendor{{ID: "a"}, {ID: "b"}},
		Infrastructure: []core.InfrastructureItem{{ID: "c"}},
	})

	assert.Equal(t, "id-1", info.ID)
	assert.Equal(t, "friday", info.Name)
	assert.Equal(t, created, info.CreatedAt)
	assert.Equal(t, 2, info.VendorCount)
	assert.Equal(t, 1, info.InfrastructureCount)
}
