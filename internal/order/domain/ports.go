package domain

import (
	"context"
	"errors"
)

// ErrMemberExists reports a directory insert that conflicted with an
// existing membership. Callers treat it as success.
var ErrMemberExists = errors.New("member_already_exists")

// DirectoryService adds buyers to a workspace group.
type DirectoryService interface {
	AddMember(ctx context.Context, groupEmail, memberEmail, role string) error
}

// DriveService grants read access on shared files.
type DriveService interface {
	// GrantReader extracts the file id from url and adds a reader
	// permission for email. Unparseable urls are skipped without error.
	GrantReader(ctx context.Context, url, email string) error
}

// MailSender delivers one rendered notification.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// TemplateFetcher loads a remote template body.
type TemplateFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}
