package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation participants are user ids kept in sorted order. PairKey
// joins them and carries the uniqueness of a pair.
type Conversation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ConversationID string             `bson:"conversation_id" json:"id"`
	PairKey        string             `bson:"pair_key" json:"-"`
	Participants   []string           `bson:"participants" json:"participants"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`

	LastMessage *Message `bson:"-" json:"last_message"`
}

// ConversationPair returns the sorted participants and pair key for two users.
func ConversationPair(a, b string) ([]string, string) {
	if b < a {
		a, b = b, a
	}
	return []string{a, b}, a + ":" + b
}

// HasParticipant reports whether userID takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
