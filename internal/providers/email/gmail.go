package email

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/gmail/v1"
)

type GmailProvider struct {
	svc *gmail.Service
}

func NewGmail(svc *gmail.Service) *GmailProvider {
	return &GmailProvider{svc: svc}
}

func (p *GmailProvider) Send(ctx context.Context, from, to, subject, htmlBody string) error {
	raw := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, subject, htmlBody,
	)

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}
	// "me" addresses the impersonated sender account.
	_, err := p.svc.Users.Messages.Send("me", message).Context(ctx).Do()
	return err
}
