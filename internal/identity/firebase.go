package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/auth/hash"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirebaseProvider implements Provider on Firebase Authentication.
type FirebaseProvider struct {
	client *auth.Client
}

func NewFirebaseProvider(ctx context.Context, projectID, credentialsFile string) (*FirebaseProvider, error) {
	conf := &firebase.Config{ProjectID: projectID}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth client: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

// CreateIdentity imports the user rather than calling the create API: import
// accepts the stored bcrypt hash directly and lets us pin the UID, so the
// applicant's password never has to exist in plain text on this side.
func (p *FirebaseProvider) CreateIdentity(ctx context.Context, id Identity) (string, error) {
	rec := (&auth.UserToImport{}).
		UID(id.UID).
		Email(id.Email).
		EmailVerified(id.EmailVerified).
		DisplayName(id.DisplayName).
		PasswordHash(id.PasswordHash)

	result, err := p.client.ImportUsers(ctx, []*auth.UserToImport{rec}, auth.WithHash(hash.Bcrypt{}))
	if err != nil {
		return "", fmt.Errorf("failed to import identity: %w", err)
	}
	if result.FailureCount > 0 {
		return "", fmt.Errorf("identity import rejected: %s", result.Errors[0].Reason)
	}
	return id.UID, nil
}

func (p *FirebaseProvider) DeleteIdentity(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete identity %s: %w", uid, err)
	}
	return nil
}

func (p *FirebaseProvider) ListIdentities(ctx context.Context) ([]Record, error) {
	var records []Record
	it := p.client.Users(ctx, "")
	for {
		u, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list identities: %w", err)
		}
		records = append(records, Record{
			UID:       u.UID,
			Email:     u.Email,
			CreatedAt: time.UnixMilli(u.UserMetadata.CreationTimestamp),
		})
	}
	return records, nil
}
