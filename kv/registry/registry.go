package registry

import (
	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/internal/safe"
	"github.com/autom8ter/datasets/kv"
)

// KVDBOpener opens a key value database
type KVDBOpener func(params map[string]any) (kv.DB, error)

var registeredOpeners = safe.NewMap[KVDBOpener](nil)

// Register registers a KVDBOpener opener by name
func Register(name string, opener KVDBOpener) {
	registeredOpeners.Set(name, opener)
}

// Open opens a registered key value database
func Open(name string, params map[string]any) (kv.DB, error) {
	opener, ok := registeredOpeners.Get(name)
	if !ok {
		return nil, errors.New(errors.NotFound, "%s is not registered", name)
	}
	return opener(params)
}

// Providers returns the names of all registered providers in sorted order
func Providers() []string {
	return registeredOpeners.Keys()
}
