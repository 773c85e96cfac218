package kafka

import "specimenpro/internal/logger"

type MessageWriter = messageWriter
type MessageReader = messageReader

func NewProducerWithWriter(w MessageWriter, topic string, log *logger.Logger) *Producer {
	if log == nil {
		log = logger.Nop()
	}
	return &Producer{writer: w, topic: topic, logger: log}
}

func NewConsumerWithReader(r MessageReader, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Nop()
	}
	return &Consumer{reader: r, logger: log}
}
