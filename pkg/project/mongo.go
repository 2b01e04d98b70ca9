package project

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/ledwall/pkg/errors"
)

// CollectionName is the MongoDB collection holding projects.
const CollectionName = "projects"

// MongoStore keeps projects in a MongoDB collection, one document per
// project keyed by its ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo database name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(5*time.Second))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongo")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(CollectionName),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "project not found: %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find project %s", id)
	}
	return &p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Project, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list projects")
	}
	var out []*Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode projects")
	}
	sortByName(out)
	return out, nil
}

func (s *MongoStore) Save(ctx context.Context, p *Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save project %s", p.ID)
	}
	return nil
}

// Delete removes a project. The count check and the delete are separate
// operations, so two concurrent deletes can still empty the collection.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "count projects")
	}
	if n <= 1 {
		return errors.New(errors.ErrCodeLastEntry, "cannot delete the last project")
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete project %s", id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
