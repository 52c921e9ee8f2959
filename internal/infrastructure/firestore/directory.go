package firestoreinfra

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/hazard-notifier/internal/domain"
)

// Document field names written by the mobile clients.
const (
	fieldToken     = "fcmToken"
	fieldLatitude  = "latitude"
	fieldLongitude = "longitude"
)

// recipientDoc is the stored shape of a responder or user document.
type recipientDoc struct {
	FCMToken  string   `firestore:"fcmToken"`
	Latitude  *float64 `firestore:"latitude"`
	Longitude *float64 `firestore:"longitude"`
}

// Directory enumerates recipients from two Firestore collections. Document
// IDs are recipient IDs.
type Directory struct {
	client     *firestore.Client
	responders string
	users      string
}

func NewDirectory(client *firestore.Client, responders, users string) *Directory {
	return &Directory{client: client, responders: responders, users: users}
}

func (d *Directory) ListResponders(ctx context.Context) ([]domain.Recipient, error) {
	return d.listAll(ctx, d.responders)
}

func (d *Directory) ListUsers(ctx context.Context) ([]domain.Recipient, error) {
	return d.listAll(ctx, d.users)
}

func (d *Directory) listAll(ctx context.Context, collection string) ([]domain.Recipient, error) {
	docs, err := d.client.Collection(collection).
		Select(fieldToken, fieldLatitude, fieldLongitude).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	out := make([]domain.Recipient, 0, len(docs))
	for _, snap := range docs {
		var doc recipientDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, snap.Ref.ID, err)
		}
		out = append(out, doc.toRecipient(snap.Ref.ID))
	}
	return out, nil
}

func (doc recipientDoc) toRecipient(id string) domain.Recipient {
	r := domain.Recipient{ID: id, PushToken: doc.FCMToken}
	if doc.Latitude != nil && doc.Longitude != nil {
		r.Location = &domain.GeoPoint{Latitude: *doc.Latitude, Longitude: *doc.Longitude}
	}
	return r
}

// Close releases the underlying client.
func (d *Directory) Close() error {
	return d.client.Close()
}
