package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/homework-tracker-api/internal/models"
	"github.com/noah-isme/homework-tracker-api/pkg/database"
)

type homeworkDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Subject     string             `bson:"subject"`
	Description string             `bson:"description"`
	DueDate     bson.RawValue      `bson:"dueDate"`
	Priority    string             `bson:"priority"`
	Details     []string           `bson:"details"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d homeworkDocument) toModel() models.Homework {
	details := models.StringList(d.Details)
	if details == nil {
		details = models.StringList{}
	}
	return models.Homework{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Subject:     d.Subject,
		Description: d.Description,
		DueDate:     parseDueDate(d.DueDate),
		Priority:    models.Priority(d.Priority),
		Details:     details,
		CreatedAt:   d.CreatedAt,
	}
}

// parseDueDate accepts BSON dates and RFC3339 strings. Anything else yields the zero time.
func parseDueDate(raw bson.RawValue) time.Time {
	switch raw.Type {
	case bsontype.DateTime:
		if dt, ok := raw.DateTimeOK(); ok {
			return time.UnixMilli(dt).UTC()
		}
	case bsontype.String:
		if s, ok := raw.StringValueOK(); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// dueDateFilter compares dueDate after converting it server-side, so documents
// holding RFC3339 strings match like BSON dates. Unconvertible values never match.
func dueDateFilter(op string, at time.Time) bson.M {
	due := bson.M{"$convert": bson.M{"input": "$dueDate", "to": "date", "onError": nil, "onNull": nil}}
	return bson.M{"$expr": bson.M{"$and": bson.A{
		bson.M{"$ne": bson.A{due, nil}},
		bson.M{op: bson.A{due, at}},
	}}}
}

// sortByDueDate orders homeworks by due date with unreadable dates last.
func sortByDueDate(homeworks []models.Homework) {
	sort.SliceStable(homeworks, func(i, j int) bool {
		a, b := homeworks[i], homeworks[j]
		if a.HasValidDueDate() != b.HasValidDueDate() {
			return a.HasValidDueDate()
		}
		return a.DueDate.Before(b.DueDate)
	})
}

type subscriberDocument struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	Email                 string             `bson:"email"`
	UnsubscribedHomeworks []string           `bson:"unsubscribedHomeworks"`
	CreatedAt             time.Time          `bson:"createdAt"`
}

func (d subscriberDocument) toModel() models.Subscriber {
	return models.Subscriber{
		ID:                    d.ID.Hex(),
		Email:                 d.Email,
		UnsubscribedHomeworks: models.StringList(d.UnsubscribedHomeworks),
		CreatedAt:             d.CreatedAt,
	}
}

type emailDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Address   string             `bson:"address"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// HomeworkMongoRepository stores homeworks in the MongoDB homeworks collection.
type HomeworkMongoRepository struct {
	coll *mongo.Collection
}

// NewHomeworkMongoRepository constructs the repository.
func NewHomeworkMongoRepository(db *mongo.Database) *HomeworkMongoRepository {
	return &HomeworkMongoRepository{coll: db.Collection(database.HomeworksCollection)}
}

// List returns homeworks ordered by due date, optionally only those due after filter.ActiveAt.
// Dates and strings sort apart in BSON, so ordering happens after decoding.
func (r *HomeworkMongoRepository) List(ctx context.Context, filter models.HomeworkFilter) ([]models.Homework, error) {
	query := bson.M{}
	if filter.ActiveAt != nil {
		query = dueDateFilter("$gt", *filter.ActiveAt)
	}
	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find homeworks: %w", err)
	}
	var docs []homeworkDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode homeworks: %w", err)
	}
	homeworks := make([]models.Homework, 0, len(docs))
	for _, doc := range docs {
		homeworks = append(homeworks, doc.toModel())
	}
	sortByDueDate(homeworks)
	return homeworks, nil
}

// FindByID returns a homework or ErrNotFound. Malformed ids are reported as not found.
func (r *HomeworkMongoRepository) FindByID(ctx context.Context, id string) (*models.Homework, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc homeworkDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find homework: %w", err)
	}
	hw := doc.toModel()
	return &hw, nil
}

// Create inserts a homework with createdAt and an empty details list.
func (r *HomeworkMongoRepository) Create(ctx context.Context, hw *models.Homework) error {
	if hw.CreatedAt.IsZero() {
		hw.CreatedAt = time.Now().UTC()
	}
	if hw.Details == nil {
		hw.Details = models.StringList{}
	}
	doc := bson.M{
		"title":       hw.Title,
		"subject":     hw.Subject,
		"description": hw.Description,
		"dueDate":     hw.DueDate,
		"priority":    string(hw.Priority),
		"details":     []string(hw.Details),
		"createdAt":   hw.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert homework: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		hw.ID = oid.Hex()
	}
	return nil
}

// Delete removes a homework by id.
func (r *HomeworkMongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDueBefore removes homeworks due strictly before cutoff, whether stored as dates or RFC3339 strings.
func (r *HomeworkMongoRepository) DeleteDueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, dueDateFilter("$lt", cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete expired homeworks: %w", err)
	}
	return res.DeletedCount, nil
}

// SubscriberMongoRepository stores subscribers in the MongoDB subscribers collection.
type SubscriberMongoRepository struct {
	coll *mongo.Collection
}

// NewSubscriberMongoRepository constructs the repository.
func NewSubscriberMongoRepository(db *mongo.Database) *SubscriberMongoRepository {
	return &SubscriberMongoRepository{coll: db.Collection(database.SubscribersCollection)}
}

// List returns every subscriber.
func (r *SubscriberMongoRepository) List(ctx context.Context) ([]models.Subscriber, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find subscribers: %w", err)
	}
	var docs []subscriberDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode subscribers: %w", err)
	}
	subscribers := make([]models.Subscriber, 0, len(docs))
	for _, doc := range docs {
		subscribers = append(subscribers, doc.toModel())
	}
	return subscribers, nil
}

// FindByID returns a subscriber or ErrNotFound.
func (r *SubscriberMongoRepository) FindByID(ctx context.Context, id string) (*models.Subscriber, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc subscriberDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	sub := doc.toModel()
	return &sub, nil
}

// ExistsByEmail reports whether the address is already subscribed.
func (r *SubscriberMongoRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count subscribers: %w", err)
	}
	return count > 0, nil
}

// Create inserts a subscriber with an empty opt-out set.
func (r *SubscriberMongoRepository) Create(ctx context.Context, sub *models.Subscriber) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if sub.UnsubscribedHomeworks == nil {
		sub.UnsubscribedHomeworks = models.StringList{}
	}
	res, err := r.coll.InsertOne(ctx, bson.M{
		"email":                 sub.Email,
		"unsubscribedHomeworks": []string(sub.UnsubscribedHomeworks),
		"createdAt":             sub.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sub.ID = oid.Hex()
	}
	return nil
}

// Delete removes a subscriber entirely.
func (r *SubscriberMongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddUnsubscribedHomework adds homeworkID to the opt-out set with $addToSet.
func (r *SubscriberMongoRepository) AddUnsubscribedHomework(ctx context.Context, id, homeworkID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"unsubscribedHomeworks": homeworkID}},
	)
	if err != nil {
		return fmt.Errorf("unsubscribe from homework: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EmailMongoRepository stores the emails collection in MongoDB.
type EmailMongoRepository struct {
	coll *mongo.Collection
}

// NewEmailMongoRepository constructs the repository.
func NewEmailMongoRepository(db *mongo.Database) *EmailMongoRepository {
	return &EmailMongoRepository{coll: db.Collection(database.EmailsCollection)}
}

// List returns every stored address.
func (r *EmailMongoRepository) List(ctx context.Context) ([]models.EmailAddress, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find emails: %w", err)
	}
	var docs []emailDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode emails: %w", err)
	}
	emails := make([]models.EmailAddress, 0, len(docs))
	for _, doc := range docs {
		emails = append(emails, models.EmailAddress{ID: doc.ID.Hex(), Address: doc.Address, CreatedAt: doc.CreatedAt})
	}
	return emails, nil
}

// Create inserts an address with its creation time.
func (r *EmailMongoRepository) Create(ctx context.Context, email *models.EmailAddress) error {
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, bson.M{"address": email.Address, "createdAt": email.CreatedAt})
	if err != nil {
		return fmt.Errorf("insert email: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		email.ID = oid.Hex()
	}
	return nil
}
