// Copyright 2025 Truby AI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trubyai/screenplay-search/internal/core/model"
)

// DocumentStore writes the full per-scene payload to MongoDB. The document
// id it returns is what the relational scene row records as its cross-store
// reference.
type DocumentStore struct {
	collection *mongo.Collection
}

// NewDocumentStore wraps the given collection.
func NewDocumentStore(collection *mongo.Collection) *DocumentStore {
	return &DocumentStore{collection: collection}
}

// InsertSceneDocument stores the scene document and returns its hex id.
func (d *DocumentStore) InsertSceneDocument(ctx context.Context, doc *model.SceneDocument) (string, error) {
	res, err := d.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert scene document: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// GetSceneDocument retrieves one scene document by its hex id. An id that
// does not parse as an object id cannot match any document, so it reports
// ErrNotFound rather than a distinct parse error.
func (d *DocumentStore) GetSceneDocument(ctx context.Context, id string) (*model.SceneDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid document id %q: %w", id, ErrNotFound)
	}
	doc := &model.SceneDocument{}
	err = d.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(doc)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("scene document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scene document %s: %w", id, err)
	}
	return doc, nil
}

// DeleteSceneDocuments removes the documents with the given hex ids, called
// when a screenplay is torn down. Ids that do not parse are skipped; they
// cannot exist in the collection.
func (d *DocumentStore) DeleteSceneDocuments(ctx context.Context, ids []string) error {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return nil
	}
	if _, err := d.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}}); err != nil {
		return fmt.Errorf("failed to delete scene documents: %w", err)
	}
	return nil
}
