package firebaseinfra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// NewApp initialises the Firebase app shared by the FCM transport and the
// Firestore directory. An empty credentialsPath falls back to application
// default credentials.
func NewApp(ctx context.Context, credentialsPath, projectID string) (*firebase.App, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return app, nil
}
