// Package dataset provides the shared pieces of the per-dataset converters:
// input access, content checksums, and the ParseError kind.
package dataset

import (
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Source abstracts listing and downloading input assets so readers can be
// driven from local copies of a dataset or any other afs-supported location.
type Source interface {
	// List returns objects available at the given location. Listing a plain
	// file returns that single object.
	List(ctx context.Context, location string) ([]storage.Object, error)
	// Download returns the content of the given object.
	Download(ctx context.Context, object storage.Object) ([]byte, error)
}

type afsSource struct {
	svc afs.Service
}

// New constructs a Source backed by the default AFS service.
func New() Source {
	return &afsSource{svc: afs.New()}
}

func (a *afsSource) List(ctx context.Context, location string) ([]storage.Object, error) {
	return a.svc.List(ctx, location)
}

func (a *afsSource) Download(ctx context.Context, object storage.Object) ([]byte, error) {
	return a.svc.Download(ctx, object)
}
