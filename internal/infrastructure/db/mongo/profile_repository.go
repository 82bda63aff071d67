package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/viewtube/account-service/internal/core/domain"
)

const (
	subscriptionsCollection = "subscriptions"
	videosCollection        = "videos"
)

// ProfileRepository executes the read-only aggregation queries joining
// users against subscriptions and videos.
type ProfileRepository struct {
	users  *mongo.Collection
	videos *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		users:  db.Collection(usersCollection),
		videos: db.Collection(videosCollection),
	}
}

type channelProfileDoc struct {
	ID                        primitive.ObjectID `bson:"_id"`
	Username                  string             `bson:"username"`
	Email                     string             `bson:"email"`
	FullName                  string             `bson:"fullname"`
	Avatar                    string             `bson:"avatar"`
	CoverImage                string             `bson:"cover_image,omitempty"`
	SubscribersCount          int64              `bson:"subscribers_count"`
	ChannelsSubscribedToCount int64              `bson:"channels_subscribed_to_count"`
	IsSubscribed              bool               `bson:"is_subscribed"`
}

// ChannelProfile matches the channel by username, left-joins subscriptions
// twice (as channel, as subscriber), derives the two cardinalities and the
// viewer membership test, and projects the public field whitelist.
func (r *ProfileRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// An unresolvable viewer id degrades to is_subscribed=false rather
	// than failing the whole query.
	viewerOID, _ := primitive.ObjectIDFromHex(viewerID)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "username", Value: username}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subscriptionsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "channel"},
			{Key: "as", Value: "subscribers"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subscriptionsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "subscriber"},
			{Key: "as", Value: "subscribed_to"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "subscribers_count", Value: bson.D{{Key: "$size", Value: "$subscribers"}}},
			{Key: "channels_subscribed_to_count", Value: bson.D{{Key: "$size", Value: "$subscribed_to"}}},
			{Key: "is_subscribed", Value: bson.D{
				{Key: "$in", Value: bson.A{viewerOID, "$subscribers.subscriber"}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "username", Value: 1},
			{Key: "email", Value: 1},
			{Key: "fullname", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "cover_image", Value: 1},
			{Key: "subscribers_count", Value: 1},
			{Key: "channels_subscribed_to_count", Value: 1},
			{Key: "is_subscribed", Value: 1},
		}}},
	}

	cur, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("channel profile aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var docs []channelProfileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("channel profile decode: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrChannelNotFound
	}

	doc := docs[0]
	return &domain.ChannelProfile{
		ID:                        doc.ID.Hex(),
		Username:                  doc.Username,
		Email:                     doc.Email,
		FullName:                  doc.FullName,
		Avatar:                    doc.Avatar,
		CoverImage:                doc.CoverImage,
		SubscribersCount:          doc.SubscribersCount,
		ChannelsSubscribedToCount: doc.ChannelsSubscribedToCount,
		IsSubscribed:              doc.IsSubscribed,
	}, nil
}

type watchVideoDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	VideoFile   string             `bson:"video_file"`
	Thumbnail   string             `bson:"thumbnail"`
	Duration    float64            `bson:"duration"`
	Views       int64              `bson:"views"`
	CreatedAt   time.Time          `bson:"created_at"`
	Owner       struct {
		Username string `bson:"username"`
		FullName string `bson:"fullname"`
		Avatar   string `bson:"avatar"`
	} `bson:"owner"`
}

// WatchHistory loads the caller's watch-history id list, joins the videos
// collection with an owner sub-lookup collapsed to a single object, and
// returns the results in stored-list order. $lookup gives no ordering
// guarantee over the local array, so the join result is reordered against
// the id list before returning.
func (r *ProfileRepository) WatchHistory(ctx context.Context, userID string) ([]domain.WatchVideo, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var holder struct {
		WatchHistory []primitive.ObjectID `bson:"watch_history"`
	}
	err = r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&holder)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("watch history lookup: %w", err)
	}
	if len(holder.WatchHistory) == 0 {
		return []domain.WatchVideo{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$in", Value: holder.WatchHistory}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		// Collapse the singleton owner list to a single embedded object.
		{{Key: "$addFields", Value: bson.D{
			{Key: "owner", Value: bson.D{{Key: "$first", Value: "$owner"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "video_file", Value: 1},
			{Key: "thumbnail", Value: 1},
			{Key: "duration", Value: 1},
			{Key: "views", Value: 1},
			{Key: "created_at", Value: 1},
			{Key: "owner.username", Value: 1},
			{Key: "owner.fullname", Value: 1},
			{Key: "owner.avatar", Value: 1},
		}}},
	}

	cur, err := r.videos.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("watch history aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var docs []watchVideoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("watch history decode: %w", err)
	}

	byID := make(map[primitive.ObjectID]watchVideoDoc, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	history := make([]domain.WatchVideo, 0, len(holder.WatchHistory))
	for _, id := range holder.WatchHistory {
		doc, ok := byID[id]
		if !ok {
			// Referenced video no longer exists; skip it.
			continue
		}
		history = append(history, domain.WatchVideo{
			ID:          doc.ID.Hex(),
			Title:       doc.Title,
			Description: doc.Description,
			VideoFile:   doc.VideoFile,
			Thumbnail:   doc.Thumbnail,
			Duration:    doc.Duration,
			Views:       doc.Views,
			CreatedAt:   doc.CreatedAt,
			Owner: domain.VideoOwner{
				Username: doc.Owner.Username,
				FullName: doc.Owner.FullName,
				Avatar:   doc.Owner.Avatar,
			},
		})
	}
	return history, nil
}
