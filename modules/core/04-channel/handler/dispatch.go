package handler

import (
	"github.com/polytope-labs/ismp-go/modules/core/exported"
)

// dispatch resolves the module registered under moduleID and invokes callback on
// it. Routing failures are reported like module failures.
func dispatch(router exported.IsmpRouter, moduleID []byte, callback func(exported.IsmpModule) error) error {
	module, err := router.Module(moduleID)
	if err != nil {
		return err
	}

	return callback(module)
}
