package google

import (
	"context"

	"go.uber.org/zap"
)

// Unconfigured credentials degrade the Workspace integrations to debug
// logging so local development never needs a service account.

type noopDirectory struct {
	log *zap.Logger
}

func (n *noopDirectory) AddMember(ctx context.Context, groupEmail, memberEmail, role string) error {
	n.log.Debug("directory disabled, skipping member insert",
		zap.String("group_email", groupEmail),
		zap.String("member_email", memberEmail),
	)
	return nil
}

type noopDrive struct {
	log *zap.Logger
}

func (n *noopDrive) GrantReader(ctx context.Context, url, email string) error {
	n.log.Debug("drive disabled, skipping permission grant",
		zap.String("url", url),
		zap.String("email", email),
	)
	return nil
}
