package kafkabridge

import (
	"fmt"
	"net"

	"atc-planner/internal/config"

	"github.com/segmentio/kafka-go"
)

// CreateTopics makes sure the tick and decision topics exist. It asks the
// cluster controller, so any broker in cfg.Brokers will do.
func CreateTopics(cfg config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.Dial("tcp", cfg.Brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	ctrlConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprint(controller.Port)))
	if err != nil {
		return err
	}
	defer ctrlConn.Close()

	topics := make([]kafka.TopicConfig, 0, 2)
	for _, topic := range []string{cfg.TickTopic, cfg.DecisionTopic} {
		topics = append(topics, kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     cfg.NumPartitions,
			ReplicationFactor: cfg.ReplicationFac,
		})
	}
	return ctrlConn.CreateTopics(topics...)
}
