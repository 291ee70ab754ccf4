package ports_test

import (
	"testing"

	"github.com/abctechblog/blogfront/internal/mocks"
	mocksauth "github.com/abctechblog/blogfront/internal/mocks/auth"
	"github.com/abctechblog/blogfront/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.IdentityProvider = (*mocksauth.MockIdentityProvider)(nil)
	var _ ports.SnapshotStore = (*mocksauth.MemorySnapshotStore)(nil)
	var _ ports.AuthAPI = (*mocks.MockAuthAPI)(nil)
	var _ ports.MediaAPI = (*mocks.MockMediaAPI)(nil)
	var _ ports.PostAPI = (*mocks.MockPostAPI)(nil)
	var _ ports.ContactRelay = (*mocks.MockContactRelay)(nil)
}
