package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogapi/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	// DefaultMongoDatabase is used when the connection string names no database.
	DefaultMongoDatabase = "blog-app"
	postsCollection      = "posts"
)

type postDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Author  models.Author      `bson:"author"`
	Title   string             `bson:"title"`
	Content string             `bson:"content"`
	Created time.Time          `bson:"created"`
}

func toDocument(post *models.BlogPost) (postDocument, error) {
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return postDocument{}, fmt.Errorf("invalid post ID %q: %w", post.ID, err)
	}
	return postDocument{
		ID:      oid,
		Author:  post.Author,
		Title:   post.Title,
		Content: post.Content,
		Created: post.Created,
	}, nil
}

func (d *postDocument) toModel() *models.BlogPost {
	return &models.BlogPost{
		ID:      d.ID.Hex(),
		Author:  d.Author,
		Title:   d.Title,
		Content: d.Content,
		Created: d.Created.UTC(),
	}
}

// MongoPostRepository implements Store on a MongoDB collection.
type MongoPostRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoPostRepository uses the posts collection of db.
func NewMongoPostRepository(client *mongo.Client, db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		client:     client,
		collection: db.Collection(postsCollection),
	}
}

// OpenMongo connects to uri and verifies the server is reachable.
func OpenMongo(ctx context.Context, uri string) (*MongoPostRepository, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	name := cs.Database
	if name == "" {
		name = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return NewMongoPostRepository(client, client.Database(name)), nil
}

func (r *MongoPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	post.ID = newID()
	post.BeforeCreate()

	doc, err := toDocument(post)
	if err != nil {
		return err
	}
	_, err = r.collection.InsertOne(ctx, doc)
	return err
}

func (r *MongoPostRepository) CreateMany(ctx context.Context, posts []*models.BlogPost) error {
	if len(posts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(posts))
	for _, post := range posts {
		post.ID = newID()
		post.BeforeCreate()

		doc, err := toDocument(post)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc postDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoPostRepository) List(ctx context.Context) ([]*models.BlogPost, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]*models.BlogPost, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

func (r *MongoPostRepository) Update(ctx context.Context, id string, update models.PostUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	filter := bson.M{"_id": oid}

	// $set with no fields is rejected by the server, so only check existence.
	if update.IsEmpty() {
		n, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}

	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M(update.Fields())})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *MongoPostRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *MongoPostRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoPostRepository) DropAll(ctx context.Context) error {
	return r.collection.Drop(ctx)
}

func (r *MongoPostRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
