package common

import (
	"errors"

	"github.com/spf13/cobra"
)

var errNoAppContext = errors.New("application context is not initialized")

func FromCommand(cmd *cobra.Command) (*AppContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errNoAppContext
	}
	app, ok := ctx.Value(ContextKeyApp).(*AppContext)
	if !ok || app == nil {
		return nil, errNoAppContext
	}
	return app, nil
}
