package catalog

import (
	"context"
	"sync"

	iceberg "github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"

	"github.com/ajitpratap0/nebula-catalog/pkg/testutil"
)

// nessieAuthTypeProp is the native property the authentication type is
// handed to the catalog client under
const nessieAuthTypeProp = "nessie_server_authentication_type"

func newFakeStorage() *testutil.StubStorage {
	return testutil.NewStubStorage()
}

type recordingInitializer struct {
	mu    sync.Mutex
	calls int
	name  string
	props iceberg.Properties
	cat   icebergcatalog.Catalog
	err   error
}

func (r *recordingInitializer) Initialize(_ context.Context, name string, props iceberg.Properties) (icebergcatalog.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.name = name
	r.props = props
	if r.err != nil {
		return nil, r.err
	}
	return r.cat, nil
}
