package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/worklog/internal/models"
)

// MongoStore handles work item and series documents in MongoDB. Every
// query is scoped by user_id; ids are client-generated and unique per user.
type MongoStore struct {
	items  *mongo.Collection
	series *mongo.Collection
	now    func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		items:  db.Collection("items"),
		series: db.Collection("series"),
		now:    time.Now,
	}
}

// EnsureIndexes creates the per-user uniqueness and listing indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	owner := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		owner,
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("mongo items indexes: %w", err)
	}
	if _, err := s.series.Indexes().CreateMany(ctx, []mongo.IndexModel{
		owner,
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "startDate", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("mongo series indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) ListItems(ctx context.Context, userID string) ([]models.WorkItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.items.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list items: %w", err)
	}
	defer cur.Close(ctx)

	items := []models.WorkItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongo list items: %w", err)
	}
	return items, nil
}

// UpsertItem overwrites the mutable fields of (userID, item.ID) or inserts
// it when absent, and returns the stored document.
func (s *MongoStore) UpsertItem(ctx context.Context, userID string, item models.WorkItem) (*models.WorkItem, error) {
	now := s.now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":           item.Title,
			"content":         item.Content,
			"category":        item.Category,
			"date":            item.Date,
			"durationMinutes": item.DurationMinutes,
			"seriesId":        item.SeriesID,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.WorkItem
	err := s.items.FindOneAndUpdate(ctx, bson.M{"user_id": userID, "id": item.ID}, update, opts).Decode(&stored)
	if err != nil {
		return nil, fmt.Errorf("mongo upsert item: %w", err)
	}
	return &stored, nil
}

// DeleteItem removes the item if the user owns it. Missing ids are not an error.
func (s *MongoStore) DeleteItem(ctx context.Context, userID, id string) error {
	if _, err := s.items.DeleteOne(ctx, bson.M{"user_id": userID, "id": id}); err != nil {
		return fmt.Errorf("mongo delete item: %w", err)
	}
	return nil
}

func (s *MongoStore) ListSeries(ctx context.Context, userID string) ([]models.Series, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	cur, err := s.series.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list series: %w", err)
	}
	defer cur.Close(ctx)

	series := []models.Series{}
	if err := cur.All(ctx, &series); err != nil {
		return nil, fmt.Errorf("mongo list series: %w", err)
	}
	return series, nil
}

// UpsertSeries has the same semantics as UpsertItem. Status transitions are
// stored as given.
func (s *MongoStore) UpsertSeries(ctx context.Context, userID string, series models.Series) (*models.Series, error) {
	now := s.now().UTC()
	set := bson.M{
		"title":       series.Title,
		"description": series.Description,
		"status":      series.Status,
		"startDate":   series.CreatedAt,
		"updated_at":  now,
	}
	update := bson.M{"$set": set}
	if series.CompletedAt != nil {
		set["endDate"] = *series.CompletedAt
	} else {
		update["$unset"] = bson.M{"endDate": ""}
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Series
	err := s.series.FindOneAndUpdate(ctx, bson.M{"user_id": userID, "id": series.ID}, update, opts).Decode(&stored)
	if err != nil {
		return nil, fmt.Errorf("mongo upsert series: %w", err)
	}
	return &stored, nil
}

// DeleteSeries removes only the series document; items keep their seriesId.
func (s *MongoStore) DeleteSeries(ctx context.Context, userID, id string) error {
	if _, err := s.series.DeleteOne(ctx, bson.M{"user_id": userID, "id": id}); err != nil {
		return fmt.Errorf("mongo delete series: %w", err)
	}
	return nil
}
