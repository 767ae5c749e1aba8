// Package google builds Workspace clients from service-account
// credentials with admin impersonation.
package google

import (
	"context"
	"net/http"

	"github.com/Syaif05/superapp-admin-web/internal/config"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func newJWTClient(ctx context.Context, cfg config.GoogleConfig, scopes ...string) (*http.Client, error) {
	var jwtConfig *jwt.Config
	if cfg.CredentialsJSON != "" {
		parsed, err := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), scopes...)
		if err != nil {
			return nil, err
		}
		jwtConfig = parsed
	} else {
		jwtConfig = &jwt.Config{
			Email:      cfg.ClientEmail,
			PrivateKey: []byte(cfg.PrivateKey),
			Scopes:     scopes,
			TokenURL:   google.JWTTokenURL,
		}
	}

	// Workspace APIs require acting as a real admin user.
	jwtConfig.Subject = cfg.AdminEmail
	return jwtConfig.Client(ctx), nil
}

func newDirectoryService(ctx context.Context, cfg config.GoogleConfig) (*admin.Service, error) {
	client, err := newJWTClient(ctx, cfg, admin.AdminDirectoryGroupMemberScope)
	if err != nil {
		return nil, err
	}
	return admin.NewService(ctx, option.WithHTTPClient(client))
}

func newDriveService(ctx context.Context, cfg config.GoogleConfig) (*drive.Service, error) {
	client, err := newJWTClient(ctx, cfg, drive.DriveScope)
	if err != nil {
		return nil, err
	}
	return drive.NewService(ctx, option.WithHTTPClient(client))
}

// NewGmailService builds a Gmail client impersonating sender.
func NewGmailService(ctx context.Context, cfg config.GoogleConfig, sender string) (*gmail.Service, error) {
	client, err := newJWTClient(ctx, config.GoogleConfig{
		CredentialsJSON: cfg.CredentialsJSON,
		ClientEmail:     cfg.ClientEmail,
		PrivateKey:      cfg.PrivateKey,
		AdminEmail:      sender,
	}, gmail.GmailSendScope)
	if err != nil {
		return nil, err
	}
	return gmail.NewService(ctx, option.WithHTTPClient(client))
}
