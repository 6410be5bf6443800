// Package firestore implements the account and authorization-slot
// repositories on Cloud Firestore. The registry collection is populated by
// spreadsheet imports and its field typing is unreliable, so slot reads go
// through tolerant converters instead of direct struct decoding.
package firestore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"membership-backend/internal/repository"
)

const (
	accountsCollection = "accounts"
	slotsCollection    = "authorized_members"
)

type Store struct {
	client *firestore.Client
	repository.AccountRepository
	repository.AuthSlotRepository
}

func NewStore(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &Store{
		client:             client,
		AccountRepository:  NewAccountRepository(client),
		AuthSlotRepository: NewAuthSlotRepository(client),
	}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// asString reads an identifier field that an import may have written as a
// string or a number.
func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asTimePtr(v any) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}
