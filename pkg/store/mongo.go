package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fish-not-phish/eido/pkg/errors"
)

// DefaultMongoDatabase is used when MongoOptions.Database is empty.
const DefaultMongoDatabase = "eido"

const filesCollection = "files"

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI      string
	Database string
	Timeout  time.Duration // per-operation timeout, default 10s
}

// MongoStore keeps files in a MongoDB collection.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

// fileDoc is the BSON shape of a File. The scene is stored as a string so
// MongoDB never reorders or retypes its keys.
type fileDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Source    string    `bson:"source"`
	Document  string    `bson:"document,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toDoc(f *File) fileDoc {
	return fileDoc{
		ID:        f.ID,
		Name:      f.Name,
		Source:    f.Source,
		Document:  string(f.Document),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (d fileDoc) file() *File {
	f := &File{
		ID:        d.ID,
		Name:      d.Name,
		Source:    d.Source,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Document != "" {
		f.Document = json.RawMessage(d.Document)
	}
	return f
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures
// the updated_at index used by List.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	s := &MongoStore{
		client:  client,
		coll:    client.Database(opts.Database).Collection(filesCollection),
		timeout: opts.Timeout,
		now:     time.Now,
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create files index")
	}
	return s, nil
}

func (s *MongoStore) Create(ctx context.Context, f *File) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prepare(f, s.now().UTC().Truncate(time.Millisecond))
	if _, err := s.coll.InsertOne(ctx, toDoc(f)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(errors.ErrCodeInvalidInput, "file %s already exists", f.ID)
		}
		return errors.Wrap(errors.ErrCodeStorage, err, "insert file")
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*File, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc fileDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find file %s", id)
	}
	return doc.file(), nil
}

func (s *MongoStore) List(ctx context.Context) ([]*File, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list files")
	}
	var docs []fileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode files")
	}

	files := make([]*File, len(docs))
	for i, d := range docs {
		files[i] = d.file()
	}
	return files, nil
}

func (s *MongoStore) Update(ctx context.Context, f *File) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	f.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)
	doc := toDoc(f)
	update := bson.M{"$set": bson.M{
		"name":       doc.Name,
		"source":     doc.Source,
		"document":   doc.Document,
		"updated_at": doc.UpdatedAt,
	}}

	var old fileDoc
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": f.ID}, update).Decode(&old)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return notFound(f.ID)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "update file %s", f.ID)
	}
	f.CreatedAt = old.CreatedAt
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete file %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
