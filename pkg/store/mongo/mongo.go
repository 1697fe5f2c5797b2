// Package mongo stores models in MongoDB.
//
// Two collections are used: models holds one document per model and entities
// one document per entity, keyed by "<model>:<handle>". The attribute list is
// kept as the same JSON blob the sqlite backend stores, so both backends
// decode identically.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/store"
)

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "ifctree"

// saveBatch bounds the number of writes per BulkWrite call.
const saveBatch = 1000

type modelDoc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type entityDoc struct {
	ID         string `bson:"_id"`
	Model      string `bson:"model"`
	Handle     int64  `bson:"handle"`
	Kind       string `bson:"kind"`
	Attributes []byte `bson:"attributes"`
}

// Store is a MongoDB-backed store.Store.
type Store struct {
	client   *mongo.Client
	models   *mongo.Collection
	entities *mongo.Collection
}

// Connect connects to uri and prepares the collections of database db.
func Connect(ctx context.Context, uri, db string) (*Store, error) {
	if db == "" {
		db = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := &Store{
		client:   client,
		models:   client.Database(db).Collection("models"),
		entities: client.Database(db).Collection("entities"),
	}
	_, err = s.entities.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "model", Value: 1}, {Key: "handle", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "model", Value: 1}, {Key: "kind", Value: 1}, {Key: "handle", Value: 1}}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return s, nil
}

func entityID(model ifc.ModelID, h ifc.Handle) string {
	return string(model) + ":" + strconv.FormatUint(uint64(h), 10)
}

// Save implements store.Store. Entities are upserted in batches; entities of
// a previous version of the model that are not in the new set are removed.
func (s *Store) Save(ctx context.Context, info store.ModelInfo, entities []*ifc.Entity) error {
	id := string(info.ID)
	if _, err := s.entities.DeleteMany(ctx, bson.M{"model": id}); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}

	writes := make([]mongo.WriteModel, 0, min(len(entities), saveBatch))
	flush := func() error {
		if len(writes) == 0 {
			return nil
		}
		_, err := s.entities.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		writes = writes[:0]
		return err
	}
	for _, e := range entities {
		attrs, err := ifc.EncodeAttributes(e.Attributes)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Handle, err)
		}
		doc := entityDoc{
			ID:         entityID(info.ID, e.Handle),
			Model:      id,
			Handle:     int64(e.Handle),
			Kind:       string(e.Kind),
			Attributes: attrs,
		}
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.ID}).
			SetReplacement(doc).
			SetUpsert(true))
		if len(writes) == saveBatch {
			if err := flush(); err != nil {
				return fmt.Errorf("write entities: %w", err)
			}
		}
	}
	if err := flush(); err != nil {
		return fmt.Errorf("write entities: %w", err)
	}

	_, err := s.models.ReplaceOne(ctx, bson.M{"_id": id}, modelDoc{ID: id, Name: info.Name},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert model: %w", err)
	}
	return nil
}

// Entity implements ifc.EntityStore.
func (s *Store) Entity(ctx context.Context, model ifc.ModelID, h ifc.Handle) (*ifc.Entity, error) {
	var doc entityDoc
	err := s.entities.FindOne(ctx, bson.M{"_id": entityID(model, h)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ifc.ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find entity: %w", err)
	}
	return doc.entity(model)
}

// EntitiesOfKind implements ifc.EntityStore.
func (s *Store) EntitiesOfKind(ctx context.Context, model ifc.ModelID, kind ifc.Kind) ([]*ifc.Entity, error) {
	cur, err := s.entities.Find(ctx,
		bson.M{"model": string(model), "kind": string(kind)},
		options.Find().SetSort(bson.D{{Key: "handle", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find entities: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []*ifc.Entity
	for cur.Next(ctx) {
		var doc entityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		e, err := doc.entity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

// Model implements store.Store.
func (s *Store) Model(ctx context.Context, id ifc.ModelID) (store.ModelInfo, error) {
	var doc modelDoc
	err := s.models.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ModelInfo{}, store.ErrModelNotFound
	}
	if err != nil {
		return store.ModelInfo{}, fmt.Errorf("find model: %w", err)
	}
	return s.info(ctx, doc)
}

// Models implements store.Store.
func (s *Store) Models(ctx context.Context) ([]store.ModelInfo, error) {
	cur, err := s.models.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find models: %w", err)
	}
	var docs []modelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	out := make([]store.ModelInfo, 0, len(docs))
	for _, d := range docs {
		info, err := s.info(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *Store) info(ctx context.Context, d modelDoc) (store.ModelInfo, error) {
	n, err := s.entities.CountDocuments(ctx, bson.M{"model": d.ID})
	if err != nil {
		return store.ModelInfo{}, fmt.Errorf("count entities: %w", err)
	}
	return store.ModelInfo{ID: ifc.ModelID(d.ID), Name: d.Name, Entities: int(n)}, nil
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, id ifc.ModelID) error {
	if _, err := s.entities.DeleteMany(ctx, bson.M{"model": string(id)}); err != nil {
		return fmt.Errorf("delete entities: %w", err)
	}
	if _, err := s.models.DeleteOne(ctx, bson.M{"_id": string(id)}); err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

func (d entityDoc) entity(model ifc.ModelID) (*ifc.Entity, error) {
	attrs, err := ifc.DecodeAttributes(d.Attributes)
	if err != nil {
		return nil, fmt.Errorf("decode %d: %w", d.Handle, err)
	}
	return &ifc.Entity{Model: model, Handle: ifc.Handle(d.Handle), Kind: ifc.Kind(d.Kind), Attributes: attrs}, nil
}

var _ store.Store = (*Store)(nil)
