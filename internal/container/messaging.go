package container

import (
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/cache"
	"github.com/serroba/shortlinks/internal/events"
	"github.com/serroba/shortlinks/internal/messaging"
	"go.uber.org/zap"
)

// CacheSyncConsumerGroup is the Redis Streams consumer group of the cache sync worker.
const CacheSyncConsumerGroup = "cache-sync"

// PublisherGroupPackage provides the Redis Streams publisher.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, err
		}

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:        conn.Client,
			DefaultMaxlen: 100_000,
		}, messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i)))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (messaging.Publish[events.URLCreatedEvent], error) {
		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[events.URLCreatedEvent](group.Publisher(), events.TopicURLCreated), nil
	})
}

// ConsumerGroupPackage provides the cache sync consumers.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, err
		}

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:          conn.Client,
			ConsumerGroup:   CacheSyncConsumerGroup,
			NackResendSleep: time.Second,
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, err
		}

		c, err := do.Invoke[*cache.Cache](i)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			events.TopicURLCreated,
			events.NewCacheSyncHandler(c, opts.CacheTTL()),
			logger,
		))

		return group, nil
	})
}
