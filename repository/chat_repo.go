package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/docchat-be/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type chatRepo struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

func NewChatRepo(db *mongo.Database) database.ChatStore {
	return &chatRepo{
		chats:    db.Collection("chats"),
		messages: db.Collection("messages"),
	}
}

func (r *chatRepo) CreateChat(ctx context.Context, chat *database.Chat) error {
	now := time.Now().Unix()
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	chat.CreatedAt = now
	chat.UpdatedAt = now
	_, err := r.chats.InsertOne(ctx, chat)
	return err
}

func (r *chatRepo) GetChat(ctx context.Context, id string) (*database.Chat, error) {
	var chat database.Chat
	err := r.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepo) ListChats(ctx context.Context) ([]database.Chat, error) {
	cursor, err := r.chats.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []database.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepo) DeleteChat(ctx context.Context, id string) error {
	if err := r.DeleteMessages(ctx, id); err != nil {
		return err
	}
	_, err := r.chats.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *chatRepo) CreateMessage(ctx context.Context, message *database.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.CreatedAt = time.Now().Unix()
	if _, err := r.messages.InsertOne(ctx, message); err != nil {
		return err
	}
	_, err := r.chats.UpdateOne(ctx,
		bson.M{"_id": message.ChatID},
		bson.M{"$set": bson.M{"updated_at": message.CreatedAt}})
	return err
}

func (r *chatRepo) GetMessages(ctx context.Context, chatID string) ([]database.Message, error) {
	cursor, err := r.messages.Find(ctx, bson.M{"chat_id": chatID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []database.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepo) DeleteMessages(ctx context.Context, chatID string) error {
	_, err := r.messages.DeleteMany(ctx, bson.M{"chat_id": chatID})
	return err
}
