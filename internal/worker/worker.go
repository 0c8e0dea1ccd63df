package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"taskflow/internal/config"
	"taskflow/internal/models"
	"taskflow/pkg/logger"
)

// Invalidator drops cached record lists.
type Invalidator interface {
	Invalidate(ctx context.Context, owner, table string)
}

// Run starts the Kafka consumer: reads record events and invalidates the owner's cached lists.
// Writers outside this process (the seed script) reach the cache this way.
// Consumer group members share partitions, so each event is handled once by one
// replica; that is enough because all replicas share one Redis.
func Run(ctx context.Context, cfg *config.Config, inv Invalidator) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	var processed int64
	logger.Info(ctx, "Kafka consumer started", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Kafka consumer stopped", "processed", processed)
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, inv, msg.Value); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid poison pill blocking the partition
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
		processed++
	}
}

func handleMessage(ctx context.Context, inv Invalidator, payload []byte) error {
	var ev models.RecordEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	if ev.Owner == "" {
		return fmt.Errorf("record event without owner")
	}
	switch ev.Table {
	case models.TableTask, models.TableCategory:
	default:
		return fmt.Errorf("unknown table %q", ev.Table)
	}
	switch ev.Action {
	case models.ActionCreate, models.ActionUpdate, models.ActionDelete:
		inv.Invalidate(ctx, ev.Owner, ev.Table)
	default:
		logger.Debug(ctx, "Worker ignoring action", "action", ev.Action)
	}
	return nil
}
