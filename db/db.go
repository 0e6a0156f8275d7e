package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-relieflink/types"
)

const (
	requestsCollection  = "requests"
	alertsCollection    = "alerts"
	sheltersCollection  = "shelters"
	inventoryCollection = "inventory"
	settingsCollection  = "settings"
	settingsDocID       = "platform"
)

// Firebase app is a process-wide singleton; both Firestore and Auth hang off it.
var (
	app     *firebase.App
	appErr  error
	appOnce sync.Once
)

// InitFirebase initializes the Firebase app from base64 encoded service account JSON.
func InitFirebase(ctx context.Context, encodedCreds, projectID string) (*firebase.App, error) {
	appOnce.Do(func() {
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			appErr = fmt.Errorf("decode firebase credentials: %w", err)
			return
		}

		var cfg *firebase.Config
		if projectID != "" {
			cfg = &firebase.Config{ProjectID: projectID}
		}

		opt := option.WithCredentialsJSON(creds)
		app, appErr = firebase.NewApp(ctx, cfg, opt)
		if appErr != nil {
			appErr = fmt.Errorf("initialize firebase app: %w", appErr)
		}
	})
	return app, appErr
}

// FirestoreStore implements Store on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
	log    *zap.Logger
}

var _ Store = (*FirestoreStore)(nil)

// NewFirestoreStore opens a Firestore client on the given app.
func NewFirestoreStore(ctx context.Context, app *firebase.App, log *zap.Logger) (*FirestoreStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firestore client: %w", err)
	}
	return &FirestoreStore{client: client, log: log.Named("firestore")}, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// remoteErr maps a Firestore failure onto the error taxonomy.
func remoteErr(op string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", op, types.ErrNotFound)
	}
	return &types.RemoteOperationError{Op: op, Err: err}
}
