package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	pkgkafka "github.com/bibbank/cardiorisk/pkg/kafka"
)

// KafkaContainer wraps a testcontainers Kafka instance.
type KafkaContainer struct {
	Container *kafka.KafkaContainer
	Brokers   []string
}

// NewKafkaContainer starts a single-node KRaft broker. Register Cleanup with t.Cleanup.
func NewKafkaContainer(ctx context.Context, t *testing.T) *KafkaContainer {
	t.Helper()

	kafkaContainer, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("cardio-test"),
	)
	require.NoError(t, err, "start kafka container")

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")

	return &KafkaContainer{
		Container: kafkaContainer,
		Brokers:   brokers,
	}
}

// ClientConfig points producers and consumers at the container. Each call
// gets its own consumer group so tests never share offsets.
func (kc *KafkaContainer) ClientConfig(groupPrefix string) pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       kc.Brokers,
		ConsumerGroup: groupPrefix + "-" + uuid.NewString(),
	}
}

// Cleanup terminates the container.
func (kc *KafkaContainer) Cleanup(t *testing.T) {
	t.Helper()

	if kc.Container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := kc.Container.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate kafka container: %v", err)
		}
	}
}
