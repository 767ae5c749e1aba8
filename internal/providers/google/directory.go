package google

import (
	"context"
	"errors"
	"strings"

	orderdomain "github.com/Syaif05/superapp-admin-web/internal/order/domain"
	"go.uber.org/zap"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/googleapi"
)

type directoryService struct {
	svc *admin.Service
	log *zap.Logger
}

func (d *directoryService) AddMember(ctx context.Context, groupEmail, memberEmail, role string) error {
	member := &admin.Member{
		Email: memberEmail,
		Role:  strings.ToUpper(strings.TrimSpace(role)),
	}
	if member.Role == "" {
		member.Role = "MEMBER"
	}

	_, err := d.svc.Members.Insert(groupEmail, member).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			if apiErr.Code == 409 || strings.Contains(apiErr.Message, "Member already exists") {
				return orderdomain.ErrMemberExists
			}
		}
		return err
	}

	d.log.Info("group member added",
		zap.String("group_email", groupEmail),
		zap.String("member_email", memberEmail),
	)
	return nil
}
