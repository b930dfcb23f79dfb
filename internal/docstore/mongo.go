package docstore

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vmcollection/spidermap-go/internal/conf"
	"github.com/vmcollection/spidermap-go/internal/errors"
)

// Sentinel errors for document-store operations.
var (
	// ErrRecordNotFound marks a write against a record key with no document.
	ErrRecordNotFound = stderrors.New("record not found")

	// ErrInvalidIdentifications marks a malformed taxaObserved payload.
	ErrInvalidIdentifications = stderrors.New("invalid taxa observed data")
)

// recordCountKey is the fixed document holding the synchronized record total.
const recordCountKey = "recordCount"

// Store is the document-store client for synchronized records.
type Store struct {
	client  *mongo.Client
	records *mongo.Collection
	meta    *mongo.Collection
}

// Connect opens the document store described by settings.
func Connect(ctx context.Context, settings *conf.Settings) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(settings.DocStore.URI))
	if err != nil {
		return nil, storeError(err, "connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, storeError(err, "ping")
	}

	db := client.Database(settings.DocStore.Database)
	return &Store{
		client:  client,
		records: db.Collection(settings.DocStore.Collection),
		meta:    db.Collection("meta"),
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// PutRecord creates or replaces a record document, keyed by its record key.
func (s *Store) PutRecord(ctx context.Context, doc *Document) error {
	_, err := s.records.ReplaceOne(ctx,
		bson.M{"_id": doc.Key},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return storeError(err, "put_record", "key", doc.Key)
	}
	return nil
}

// DeleteRecord removes a record document.
func (s *Store) DeleteRecord(ctx context.Context, key string) error {
	result, err := s.records.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return storeError(err, "delete_record", "key", key)
	}
	if result.DeletedCount == 0 {
		return notFound(key)
	}
	return nil
}

// SaveIdentifications replaces a record's taxaObserved block. The payload
// must carry exactly one entry with a non-empty identification list; the map
// client sends the whole block back after editing determinations.
func (s *Store) SaveIdentifications(ctx context.Context, key string, taxa []TaxonObserved) error {
	if err := validateTaxaObserved(taxa, true); err != nil {
		return err
	}
	return s.replaceTaxaObserved(ctx, key, taxa)
}

// ReplaceTaxaObserved replaces a record's taxaObserved block without the
// non-empty identifications requirement, used when a determination is removed.
func (s *Store) ReplaceTaxaObserved(ctx context.Context, key string, taxa []TaxonObserved) error {
	if err := validateTaxaObserved(taxa, false); err != nil {
		return err
	}
	return s.replaceTaxaObserved(ctx, key, taxa)
}

func (s *Store) replaceTaxaObserved(ctx context.Context, key string, taxa []TaxonObserved) error {
	result, err := s.records.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"observation.taxaObserved": taxa}})
	if err != nil {
		return storeError(err, "save_identifications", "key", key)
	}
	if result.MatchedCount == 0 {
		return notFound(key)
	}
	return nil
}

// SetFlagged sets or clears the flagged marker on a record.
func (s *Store) SetFlagged(ctx context.Context, key string, flagged bool) error {
	result, err := s.records.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"flagged": flagged}})
	if err != nil {
		return storeError(err, "set_flagged", "key", key)
	}
	if result.MatchedCount == 0 {
		return notFound(key)
	}
	return nil
}

// SetRecordCount stores the synchronized record total for the map client.
func (s *Store) SetRecordCount(ctx context.Context, count int) error {
	_, err := s.meta.ReplaceOne(ctx,
		bson.M{"_id": recordCountKey},
		bson.M{"_id": recordCountKey, "count": count},
		options.Replace().SetUpsert(true))
	if err != nil {
		return storeError(err, "set_record_count")
	}
	return nil
}

// validateTaxaObserved guards the write surface the way the map client's
// legacy library did: one entry, well-formed identifications.
func validateTaxaObserved(taxa []TaxonObserved, requireIdentifications bool) error {
	if len(taxa) != 1 {
		return errors.Newf("expected exactly one taxaObserved entry, got %d: %w",
			len(taxa), ErrInvalidIdentifications).
			Component("docstore").
			Category(errors.CategoryValidation).
			Build()
	}
	if requireIdentifications && len(taxa[0].Identifications) == 0 {
		return errors.Newf("identifications list is empty: %w", ErrInvalidIdentifications).
			Component("docstore").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

func notFound(key string) error {
	return errors.Newf("record %q: %w", key, ErrRecordNotFound).
		Component("docstore").
		Category(errors.CategoryNotFound).
		Context("key", key).
		Build()
}

func storeError(err error, operation string, context ...any) error {
	builder := errors.New(err).
		Component("docstore").
		Category(errors.CategoryDocumentStore).
		Context("operation", operation)
	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}
	return builder.Build()
}
