package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionCounters = "counters"
	usersCounterID     = "users"
)

// AccountRepository implements ports.AccountRepository using MongoDB. Numeric
// account IDs are drawn from a monotonically increasing counter document, so
// they are never reused after a delete.
type AccountRepository struct {
	db       *mongo.Database
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		db:       db,
		col:      db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
	}
}

type mongoAccount struct {
	ID             int64   `bson:"_id"`
	Username       string  `bson:"username"`
	HashedPassword string  `bson:"hashed_password,omitempty"`
	Email          string  `bson:"email"`
	FullName       *string `bson:"full_name"`
	Age            *int    `bson:"age"`
	City           *string `bson:"city"`
	Country        *string `bson:"country"`
	PhoneNumber    *string `bson:"phone_number"`
	IsActive       bool    `bson:"is_active"`
}

func toMongoAccount(a *domain.Account) mongoAccount {
	return mongoAccount{
		ID:             a.ID,
		Username:       a.Username,
		HashedPassword: a.PasswordHash,
		Email:          a.Email,
		FullName:       a.FullName,
		Age:            a.Age,
		City:           a.City,
		Country:        a.Country,
		PhoneNumber:    a.PhoneNumber,
		IsActive:       a.Active,
	}
}

func (m mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.HashedPassword,
		Email:        m.Email,
		FullName:     m.FullName,
		Age:          m.Age,
		City:         m.City,
		Country:      m.Country,
		PhoneNumber:  m.PhoneNumber,
		Active:       m.IsActive,
	}
}

// EnsureIndexes creates the unique indexes backing username and email
// uniqueness.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *AccountRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next account id: %w", err)
	}
	return counter.Seq, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	created := *a
	created.ID = id
	if _, err := r.col.InsertOne(ctx, toMongoAccount(&created)); err != nil {
		return nil, translateError("insert account", err)
	}
	return &created, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns a page of accounts ordered by ID, with the password hash
// projected out.
func (r *AccountRepository) List(ctx context.Context, skip, limit int) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"hashed_password": 0})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoAccount
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		accounts = append(accounts, d.toDomain())
	}
	return accounts, nil
}

// Replace overwrites every mutable field. An empty PasswordHash keeps the
// stored hash.
func (r *AccountRepository) Replace(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	set := bson.M{
		"username":     a.Username,
		"email":        a.Email,
		"full_name":    a.FullName,
		"age":          a.Age,
		"city":         a.City,
		"country":      a.Country,
		"phone_number": a.PhoneNumber,
		"is_active":    a.Active,
	}
	if a.PasswordHash != "" {
		set["hashed_password"] = a.PasswordHash
	}
	return r.set(ctx, a.ID, set)
}

// Update changes only the fields set in patch.
func (r *AccountRepository) Update(ctx context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	set := bson.M{}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.PasswordHash != nil {
		set["hashed_password"] = *patch.PasswordHash
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.FullName != nil {
		set["full_name"] = *patch.FullName
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.City != nil {
		set["city"] = *patch.City
	}
	if patch.Country != nil {
		set["country"] = *patch.Country
	}
	if patch.PhoneNumber != nil {
		set["phone_number"] = *patch.PhoneNumber
	}
	if patch.Active != nil {
		set["is_active"] = *patch.Active
	}
	return r.set(ctx, id, set)
}

func (r *AccountRepository) set(ctx context.Context, id int64, set bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, translateError("update account", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

// translateError maps duplicate key errors on the unique indexes to
// *domain.DuplicateFieldError.
func translateError(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		field := ""
		switch msg := err.Error(); {
		case strings.Contains(msg, "username_1"):
			field = "username"
		case strings.Contains(msg, "email_1"):
			field = "email"
		}
		return &domain.DuplicateFieldError{Field: field}
	}
	return fmt.Errorf("%s: %w", op, err)
}
