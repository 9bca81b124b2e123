// Package kafka consumidor de eventos de envíos sobre segmentio/kafka-go.
package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/shipdash-api/pkg/config"
	"github.com/jhoicas/shipdash-api/pkg/logger"
)

// Handler procesa un mensaje. nil confirma el offset; un error reintenta el mismo mensaje.
type Handler func(ctx context.Context, key, value []byte) error

// Reader lo que el consumidor usa de *kafka.Reader.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer lee del topic con un consumer group y confirma solo lo procesado.
type Consumer struct {
	reader         Reader
	log            *logger.Logger
	processTimeout time.Duration
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewConsumer abre el reader del grupo configurado.
func NewConsumer(cfg config.KafkaConfig, log *logger.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
	return NewConsumerWithReader(r, log)
}

// NewConsumerWithReader permite inyectar el reader (tests).
func NewConsumerWithReader(r Reader, log *logger.Logger) *Consumer {
	return &Consumer{
		reader:         r,
		log:            log,
		processTimeout: 10 * time.Second,
		initialBackoff: 500 * time.Millisecond,
		maxBackoff:     30 * time.Second,
	}
}

// Run bucle de consumo hasta que ctx se cancele.
// Un error del handler no avanza el offset: se reintenta el mismo mensaje con backoff
// exponencial, porque el reader del grupo no vuelve a entregarlo en la misma sesión.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	c.log.Info().Msg("consumidor kafka iniciado")
	for {
		m, err := c.fetch(ctx)
		if err != nil {
			return nil
		}

		err = backoff.RetryNotify(func() error {
			procCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
			defer cancel()
			return handler(procCtx, m.Key, m.Value)
		}, c.newBackOff(ctx), func(err error, d time.Duration) {
			c.log.Error().Err(err).
				Str("topic", m.Topic).Int("partition", m.Partition).Int64("offset", m.Offset).
				Dur("retry_in", d).Msg("procesamiento fallido, se reintenta")
		})
		if err != nil {
			// Sin MaxElapsedTime solo la cancelación corta los reintentos.
			return nil
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error().Err(err).Int64("offset", m.Offset).Msg("error confirmando offset")
		}
	}
}

// fetch lee el siguiente mensaje reintentando errores del broker. Devuelve error solo al cancelar.
func (c *Consumer) fetch(ctx context.Context) (kafka.Message, error) {
	var m kafka.Message
	err := backoff.RetryNotify(func() error {
		var err error
		m, err = c.reader.FetchMessage(ctx)
		if err != nil && (ctx.Err() != nil || errors.Is(err, context.Canceled)) {
			return backoff.Permanent(err)
		}
		return err
	}, c.newBackOff(ctx), func(err error, d time.Duration) {
		c.log.Warn().Err(err).Dur("retry_in", d).Msg("error leyendo mensaje")
	})
	return m, err
}

// newBackOff backoff exponencial sin límite de tiempo, cortado por ctx.
func (c *Consumer) newBackOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.MaxInterval = c.maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(b, ctx)
}

// Close cierra el reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
