package workers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/open-builders/giveaway-bot/internal/common/logger"
)

// Команды, принимаемые из потока операторов
const (
	CommandEnd    = "end"
	CommandReroll = "reroll"
	CommandDelete = "delete"
)

const (
	consumerGroup = "giveaway_bot_consumers"
	consumerName  = "giveaway_worker_1"
)

// Commander is the part of the engine the stream worker drives.
type Commander interface {
	End(ctx context.Context, id string) error
	Reroll(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// RedisStreamWorker consumes operator commands ({type, giveaway_id}) from a
// Redis Stream consumer group and applies them to the engine.
type RedisStreamWorker struct {
	rdb       redis.Cmdable
	commander Commander
	stream    string
	block     time.Duration
	log       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRedisStreamWorker(rdb redis.Cmdable, commander Commander, stream string, block time.Duration) *RedisStreamWorker {
	if block <= 0 {
		block = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisStreamWorker{
		rdb:       rdb,
		commander: commander,
		stream:    stream,
		block:     block,
		log:       logger.With("command_stream"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start ensures the consumer group exists and begins reading in the background.
func (w *RedisStreamWorker) Start() error {
	err := w.rdb.XGroupCreateMkStream(w.ctx, w.stream, consumerGroup, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}

	w.log.Info().Str("stream", w.stream).Msg("Starting Redis stream worker")
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run()
	}()
	return nil
}

func (w *RedisStreamWorker) Stop() {
	w.cancel()
	w.wg.Wait()
	w.log.Info().Msg("Redis stream worker stopped")
}

func (w *RedisStreamWorker) run() {
	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		entries, err := w.rdb.XReadGroup(w.ctx, &redis.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: consumerName,
			Streams:  []string{w.stream, ">"},
			Count:    10,
			Block:    w.block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || w.ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("Error reading from stream")
			// пауза перед повтором
			select {
			case <-time.After(time.Second):
			case <-w.ctx.Done():
			}
			continue
		}

		for _, stream := range entries {
			for _, msg := range stream.Messages {
				w.processMessage(msg)
				if err := w.rdb.XAck(w.ctx, w.stream, consumerGroup, msg.ID).Err(); err != nil {
					w.log.Warn().Err(err).Str("message_id", msg.ID).Msg("Failed to ack command")
				}
			}
		}
	}
}

func (w *RedisStreamWorker) processMessage(msg redis.XMessage) {
	cmd, _ := msg.Values["type"].(string)
	id, _ := msg.Values["giveaway_id"].(string)
	if cmd == "" || id == "" {
		w.log.Warn().Str("message_id", msg.ID).Interface("values", msg.Values).Msg("Invalid command")
		return
	}

	log := w.log.With().Str("command", cmd).Str("giveaway_id", id).Logger()

	var err error
	switch cmd {
	case CommandEnd:
		err = w.commander.End(w.ctx, id)
	case CommandReroll:
		err = w.commander.Reroll(w.ctx, id)
	case CommandDelete:
		err = w.commander.Delete(w.ctx, id)
	default:
		log.Warn().Msg("Unknown command")
		return
	}

	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		return
	}
	log.Info().Msg("Command applied")
}
