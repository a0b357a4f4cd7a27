package testutil

import (
	"context"

	"github.com/flexprice/ordertax/internal/types"
)

const DefaultOrganizationID = "org_00000000000000000000000001"

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, types.DefaultUserID)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	ctx = types.SetOrganizationID(ctx, DefaultOrganizationID)
	return ctx
}
