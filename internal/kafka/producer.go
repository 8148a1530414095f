package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer is an async writer with a buffered inbox. Publish never blocks the
// request path on broker latency; the loop drains and flushes on shutdown.
// Publish after Close (or after the run context is cancelled) drops the
// message instead of panicking.
type Producer struct {
	w       *kafka.Writer
	log     *slog.Logger
	inbox   chan kafka.Message
	closeCh chan struct{}

	stopOnce sync.Once

	mu     sync.RWMutex
	closed bool
}

func NewProducer(log *slog.Logger, brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		log:     log,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer func() {
			_ = p.w.Close()
			p.stopOnce.Do(func() { close(p.closeCh) })
		}()
		for {
			select {
			case <-ctx.Done():
				p.flush()
				return
			case m, ok := <-p.inbox:
				if !ok {
					return
				}
				p.write(m)
			}
		}
	}()
}

// flush drains whatever is buffered without waiting for more.
func (p *Producer) flush() {
	for {
		select {
		case m, ok := <-p.inbox:
			if !ok {
				return
			}
			p.write(m)
		default:
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.log.Error("kafka write failed", "topic", p.w.Topic, "err", err)
	}
}

func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.Warn("message dropped, producer closed", "topic", p.w.Topic)
		return
	}
	m := kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	select {
	case p.inbox <- m:
	case <-p.closeCh:
		p.log.Warn("message dropped, producer stopped", "topic", p.w.Topic)
	}
}

// Close stops accepting messages; the loop flushes what is queued and exits.
// Safe to call more than once.
func (p *Producer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	close(p.inbox)
}

func (p *Producer) WaitClosed() { <-p.closeCh }
