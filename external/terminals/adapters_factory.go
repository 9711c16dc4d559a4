package terminals

import (
	"fmt"

	"github.com/neckchi/vesseleta/external/renderer"
	"github.com/neckchi/vesseleta/internal/schema"
	log "github.com/sirupsen/logrus"
)

// Factory for picking the adapter of a terminal
type AdapterFactory struct {
	adapters map[schema.ResolutionMethod]Adapter
}

func NewAdapterFactory(fetcher DocumentFetcher, r renderer.Renderer) *AdapterFactory {
	return &AdapterFactory{
		adapters: map[schema.ResolutionMethod]Adapter{
			schema.HTMLTable:        &TableAdapter{Fetcher: fetcher},
			schema.HTMLText:         &TextAdapter{Fetcher: fetcher},
			schema.Rendered:         &RenderedAdapter{Renderer: r},
			schema.ExternalWorkflow: DelegatedAdapter{},
		},
	}
}

func (f *AdapterFactory) CreateAdapter(method schema.ResolutionMethod) (Adapter, error) {
	adapter, exists := f.adapters[method]
	if !exists {
		log.Errorf("unsupported resolution method: %s", method)
		return nil, fmt.Errorf("unsupported resolution method: %s", method)
	}
	return adapter, nil
}
