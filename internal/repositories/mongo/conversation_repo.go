package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/gigmatch/internal/models"
	"github.com/yoockh/gigmatch/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConversationRepository interface {
	// GetOrCreate returns the conversation between the two users, creating
	// it on first contact.
	GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error)
	GetByConversationID(ctx context.Context, conversationID string) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	Touch(ctx context.Context, conversationID string, at time.Time) error
}

type conversationRepo struct {
	col *mongo.Collection
}

func NewConversationRepo(db *mongo.Database) ConversationRepository {
	return &conversationRepo{col: db.Collection("conversations")}
}

func (r *conversationRepo) GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	now := time.Now().UTC()
	participants, key := models.ConversationPair(userA, userB)

	// the unique pair_key index makes concurrent first contacts converge
	res := r.col.FindOneAndUpdate(ctx,
		bson.M{"pair_key": key},
		bson.M{"$setOnInsert": bson.M{
			"conversation_id": uuid.NewString(),
			"participants":    participants,
			"created_at":      now,
			"updated_at":      now,
		}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	)

	var c models.Conversation
	if err := res.Decode(&c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.findByPairKey(ctx, key)
		}
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepo) findByPairKey(ctx context.Context, key string) (*models.Conversation, error) {
	var c models.Conversation
	err := r.col.FindOne(ctx, bson.M{"pair_key": key}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *conversationRepo) GetByConversationID(ctx context.Context, conversationID string) (*models.Conversation, error) {
	var c models.Conversation
	err := r.col.FindOne(ctx, bson.M{"conversation_id": conversationID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *conversationRepo) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Conversation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conversationRepo) Touch(ctx context.Context, conversationID string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"conversation_id": conversationID},
		bson.M{"$set": bson.M{"updated_at": at.UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
