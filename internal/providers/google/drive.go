package google

import (
	"context"
	"regexp"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
)

// fileIDPattern matches the file or folder id inside any drive URL
// shape (file/d/<id>, open?id=<id>, folders/<id>).
var fileIDPattern = regexp.MustCompile(`[-\w]{25,}`)

type driveService struct {
	svc *drive.Service
	log *zap.Logger
}

func (d *driveService) GrantReader(ctx context.Context, url, email string) error {
	fileID := fileIDPattern.FindString(url)
	if fileID == "" {
		d.log.Warn("no file id in drive url, skipping grant",
			zap.String("url", url),
		)
		return nil
	}

	permission := &drive.Permission{
		Type:         "user",
		Role:         "reader",
		EmailAddress: email,
	}
	_, err := d.svc.Permissions.Create(fileID, permission).
		SendNotificationEmail(false).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	d.log.Info("drive reader granted",
		zap.String("file_id", fileID),
		zap.String("email", email),
	)
	return nil
}
