package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"persona_chess/internal/bootstrap"
	"persona_chess/internal/domain/game"
	gameerrors "persona_chess/internal/errors"
)

const (
	gamesCollection = "games"
	liveKeyPrefix   = "game:"
	opTimeout       = 5 * time.Second
)

// GameRepository keeps live snapshots in Redis and finished games in Mongo.
type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func liveKey(gameID string) string {
	return liveKeyPrefix + gameID
}

func (g *GameRepository) SaveLiveGame(ctx context.Context, state game.GameState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal live game: %w", err)
	}
	return g.redis.Set(ctx, liveKey(state.ID), payload, g.cfg.SessionTTL()).Err()
}

func (g *GameRepository) LoadLiveGame(ctx context.Context, gameID string) (game.GameState, error) {
	raw, err := g.redis.Get(ctx, liveKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.GameState{}, gameerrors.ErrGameNotFound
	} else if err != nil {
		g.log.Error(err)
		return game.GameState{}, err
	}
	var state game.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return game.GameState{}, fmt.Errorf("unmarshal live game: %w", err)
	}
	return state, nil
}

func (g *GameRepository) ArchiveGame(ctx context.Context, archived game.ArchivedGame) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	collection := g.mongo.Collection(gamesCollection)
	filter := bson.M{"_id": archived.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, filter, archived, opts); err != nil {
		g.log.Errorf("failed to archive game %s: %v", archived.ID, err)
		return err
	}
	return nil
}

func (g *GameRepository) RecentGames(ctx context.Context, limit int) ([]game.ArchivedGame, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	collection := g.mongo.Collection(gamesCollection)
	opts := options.Find().
		SetSort(bson.D{{Key: "finished_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		g.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []game.ArchivedGame{}
	for cursor.Next(ctx) {
		var archived game.ArchivedGame
		if err := cursor.Decode(&archived); err != nil {
			g.log.Error(err)
			return result, err
		}
		result = append(result, archived)
	}
	return result, cursor.Err()
}
