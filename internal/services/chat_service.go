package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/gigmatch/internal/cache"
	"github.com/yoockh/gigmatch/internal/models"
	mongorepo "github.com/yoockh/gigmatch/internal/repositories/mongo"
	pgrepo "github.com/yoockh/gigmatch/internal/repositories/postgres"
	"github.com/yoockh/gigmatch/internal/utils"
)

const maxMessageLen = 4000

type ChatService interface {
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	// StartWith get-or-creates the caller's conversation with another user
	// identified by username.
	StartWith(ctx context.Context, userID, otherUsername string) (*models.Conversation, error)
	Ensure(ctx context.Context, userA, userB string) (*models.Conversation, error)
	// Authorize loads a conversation the user takes part in.
	Authorize(ctx context.Context, userID, conversationID string) (*models.Conversation, error)
	// Messages lists a conversation and marks the other side's messages read.
	Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error)
	Send(ctx context.Context, senderID, conversationID, content string) (*models.Message, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type chatService struct {
	convs  mongorepo.ConversationRepository
	msgs   mongorepo.MessageRepository
	users  pgrepo.UserRepository
	pubsub cache.PubSub
	log    *logrus.Logger
}

func NewChatService(convs mongorepo.ConversationRepository, msgs mongorepo.MessageRepository, users pgrepo.UserRepository, ps cache.PubSub, log *logrus.Logger) ChatService {
	return &chatService{convs: convs, msgs: msgs, users: users, pubsub: ps, log: log}
}

func (s *chatService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	const op = "ChatService.ListConversations"

	out, err := s.convs.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}
	for i := range out {
		last, err := s.msgs.Last(ctx, out[i].ConversationID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to load last message", err)
		}
		out[i].LastMessage = last
	}
	return out, nil
}

func (s *chatService) StartWith(ctx context.Context, userID, otherUsername string) (*models.Conversation, error) {
	const op = "ChatService.StartWith"

	otherUsername = strings.TrimSpace(otherUsername)
	if otherUsername == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "other_user is required", nil)
	}
	other, err := s.users.GetByUsername(ctx, otherUsername)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if other.ID == userID {
		return nil, utils.E(utils.CodeInvalidArgument, op, "cannot start a conversation with yourself", nil)
	}
	return s.Ensure(ctx, userID, other.ID)
}

func (s *chatService) Ensure(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	const op = "ChatService.Ensure"

	c, err := s.convs.GetOrCreate(ctx, userA, userB)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get conversation", err)
	}
	return c, nil
}

func (s *chatService) Authorize(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	const op = "ChatService.Authorize"

	if conversationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "conversation is required", nil)
	}
	c, err := s.convs.GetByConversationID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "conversation not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get conversation", err)
	}
	if !c.HasParticipant(userID) {
		return nil, utils.E(utils.CodeForbidden, op, "not a participant", nil)
	}
	return c, nil
}

func (s *chatService) Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	const op = "ChatService.Messages"

	if _, err := s.Authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if _, err := s.msgs.MarkRead(ctx, conversationID, userID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to mark messages read", err)
	}
	out, err := s.msgs.ListByConversation(ctx, conversationID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list messages", err)
	}
	return out, nil
}

func (s *chatService) Send(ctx context.Context, senderID, conversationID, content string) (*models.Message, error) {
	const op = "ChatService.Send"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "content is required", nil)
	}
	if len(content) > maxMessageLen {
		return nil, utils.E(utils.CodeInvalidArgument, op, "content is too long", nil)
	}
	if _, err := s.Authorize(ctx, senderID, conversationID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      now,
	}
	if err := s.msgs.Insert(ctx, m); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store message", err)
	}
	if err := s.convs.Touch(ctx, conversationID, now); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update conversation", err)
	}

	// live delivery is best effort; the message is already stored
	if s.pubsub != nil {
		if err := s.pubsub.Publish(ctx, cache.ConversationChannel(conversationID), m); err != nil {
			s.log.WithError(err).WithField("conversation_id", conversationID).Warn("message fan-out failed")
		}
	}
	return m, nil
}

func (s *chatService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	const op = "ChatService.UnreadCount"

	convs, err := s.convs.ListByUser(ctx, userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}
	ids := make([]string, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ConversationID)
	}
	n, err := s.msgs.CountUnread(ctx, userID, ids)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to count unread messages", err)
	}
	return n, nil
}
