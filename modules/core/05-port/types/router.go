package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// Router contains the applications registered to receive ISMP callbacks. Module
// ids are arbitrary bytes, e.g. a contract address or a pallet id.
type Router struct {
	// routes is a map from module id to IsmpApp
	routes map[string]IsmpApp
	// prefixRoutes is a map from module id prefix to IsmpApp
	prefixRoutes map[string]IsmpApp
}

// NewRouter creates a new Router instance.
func NewRouter() *Router {
	return &Router{
		routes:       make(map[string]IsmpApp),
		prefixRoutes: make(map[string]IsmpApp),
	}
}

// AddRoute registers a route for a given module id to a given IsmpApp.
//
// Panics:
//   - if the module id is empty
//   - if a route with the same module id has already been registered
//   - if the module id is matched by a registered prefix route
func (rtr *Router) AddRoute(moduleID []byte, app IsmpApp) *Router {
	if len(moduleID) == 0 {
		panic(errors.New("module id cannot be empty"))
	}

	key := string(moduleID)
	if _, ok := rtr.routes[key]; ok {
		panic(fmt.Errorf("route %s has already been registered", FormatModuleID(moduleID)))
	}

	for prefix := range rtr.prefixRoutes {
		if strings.HasPrefix(key, prefix) {
			panic(fmt.Errorf("route %s is already matched by registered prefix route: %s", FormatModuleID(moduleID), FormatModuleID([]byte(prefix))))
		}
	}

	rtr.routes[key] = app

	return rtr
}

// AddPrefixRoute registers a route that matches every module id starting with prefix.
//
// Panics:
//   - if the prefix is empty
//   - if the prefix matches an already registered route
//   - if the prefix overlaps an already registered prefix
func (rtr *Router) AddPrefixRoute(prefix []byte, app IsmpApp) *Router {
	if len(prefix) == 0 {
		panic(errors.New("route prefix cannot be empty"))
	}

	key := string(prefix)
	for moduleID := range rtr.routes {
		if strings.HasPrefix(moduleID, key) {
			panic(fmt.Errorf("route prefix %s is a prefix for already registered route: %s", FormatModuleID(prefix), FormatModuleID([]byte(moduleID))))
		}
	}

	for registered := range rtr.prefixRoutes {
		if strings.HasPrefix(key, registered) || strings.HasPrefix(registered, key) {
			panic(fmt.Errorf("route prefix %s overlaps registered prefix: %s", FormatModuleID(prefix), FormatModuleID([]byte(registered))))
		}
	}

	rtr.prefixRoutes[key] = app

	return rtr
}

// HasRoute returns true if a direct or prefix route matches moduleID.
func (rtr *Router) HasRoute(moduleID []byte) bool {
	_, ok := rtr.getRoute(moduleID)
	return ok
}

// Route returns the IsmpApp for moduleID or ErrModuleNotFound.
func (rtr *Router) Route(moduleID []byte) (IsmpApp, error) {
	app, ok := rtr.getRoute(moduleID)
	if !ok {
		return nil, errorsmod.Wrap(ErrModuleNotFound, FormatModuleID(moduleID))
	}

	return app, nil
}

func (rtr *Router) getRoute(moduleID []byte) (IsmpApp, bool) {
	// Direct routes take precedence over prefix routes
	key := string(moduleID)
	if app, ok := rtr.routes[key]; ok {
		return app, true
	}

	// At most one prefix can match since overlapping prefixes are rejected
	for prefix, app := range rtr.prefixRoutes {
		if strings.HasPrefix(key, prefix) {
			return app, true
		}
	}

	return nil, false
}

// FormatModuleID returns moduleID as text when it is printable ascii and as
// 0x-prefixed hex otherwise.
func FormatModuleID(moduleID []byte) string {
	for _, b := range moduleID {
		if b < 0x20 || b > 0x7e {
			return "0x" + hex.EncodeToString(moduleID)
		}
	}
	return string(moduleID)
}
