package main

import (
	"time"

	internalLoader "github.com/goliatone/go-formflow/internal/schema/loader"
	"github.com/goliatone/go-formflow/pkg/schema"
)

const remoteDocumentTimeout = 10 * time.Second

func newLoader() schema.Loader {
	return internalLoader.New(schema.NewLoaderOptions(
		schema.WithHTTPFallback(remoteDocumentTimeout),
	))
}
