package anomaly

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/richxcame/refund-analysis/pkg/logger"
)

// Publisher pushes flagged anomalies onto a NATS subject for downstream
// alerting. Detection itself never blocks on it.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the NATS server at url and publishes to subject
func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("refund-analysis"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish sends each record as a separate message. Marshal or publish failures
// are logged and counted but do not abort the remaining records.
func (p *Publisher) Publish(records []Record) error {
	var failed int

	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			logger.Error("failed to marshal anomaly record",
				zap.String("subject", string(record.Subject)),
				zap.Error(err))
			failed++
			continue
		}

		if err := p.conn.Publish(p.subject, payload); err != nil {
			logger.Error("failed to publish anomaly alert",
				zap.String("subject", string(record.Subject)),
				zap.String("severity", string(record.Severity)),
				zap.Error(err))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to publish %d of %d anomaly alerts", failed, len(records))
	}
	return nil
}

// Close flushes pending messages and drops the connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}
