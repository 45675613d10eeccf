package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	contactservice "helpapp/internal/contact/service"
	contactstore "helpapp/internal/contact/store"
	deviceservice "helpapp/internal/device/service"
	devicestore "helpapp/internal/device/store"
	"helpapp/internal/platform/config"
	"helpapp/internal/platform/database"
	"helpapp/internal/platform/health"
	"helpapp/internal/platform/kafka/consumer"
	"helpapp/internal/platform/kafka/producer"
	"helpapp/internal/platform/redis"
	sensorservice "helpapp/internal/sensor/service"
	"helpapp/internal/sms"
	sosservice "helpapp/internal/sos/service"
	"helpapp/internal/sos/trigger"
	"helpapp/migrations"
)

const migrationTimeout = 30 * time.Second

// infra holds the stores and transports picked from configuration. Anything
// not configured falls back to its in-memory or logging variant.
type infra struct {
	contactStore contactservice.Store
	deviceStore  deviceservice.Store
	sender       sosservice.Sender
	closers      []func() error
	log          *slog.Logger
}

func openInfra(cfg config.Server, log *slog.Logger, h *health.Handler) (_ *infra, err error) {
	in := &infra{log: log}
	defer func() {
		if err != nil {
			in.Close()
		}
	}()

	pool, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pool != nil {
		in.closers = append(in.closers, pool.Close)
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		defer cancel()
		if err := migrations.Apply(ctx, pool.DB()); err != nil {
			return nil, err
		}
		h.RegisterCheck("postgres", pool.Health)
		in.contactStore = contactstore.NewPostgres(pool.DB())
		log.Info("contacts stored in postgres")
	} else {
		in.contactStore = contactstore.New()
		log.Info("contacts stored in memory")
	}

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		in.closers = append(in.closers, rdb.Close)
		h.RegisterCheck("redis", rdb.Health)
		in.deviceStore = devicestore.NewRedis(rdb, cfg.Device)
		log.Info("device state stored in redis", "device", cfg.Device)
	} else {
		in.deviceStore = devicestore.New()
		log.Info("device state stored in memory")
	}

	switch cfg.SOS.SMSTransport {
	case config.SMSTransportKafka:
		p, err := producer.New(producer.Config{Brokers: cfg.Kafka.Brokers, Retries: 3}, log)
		if err != nil {
			return nil, err
		}
		in.closers = append(in.closers, p.Close)
		h.RegisterCheck("kafka_producer", p.Health)
		in.sender = sms.NewOutboxSender(p, cfg.Kafka.SMSOutboxTopic)
		log.Info("sms queued to kafka outbox", "topic", cfg.Kafka.SMSOutboxTopic)
	case config.SMSTransportLog:
		in.sender = sms.NewLogSender(log)
	default:
		return nil, fmt.Errorf("unknown SMS_TRANSPORT %q", cfg.SOS.SMSTransport)
	}

	return in, nil
}

// Close releases connections in reverse order of opening.
func (in *infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil {
			in.log.Warn("failed to close resource", "error", err)
		}
	}
	in.closers = nil
}

// consumerRunner is the part of a kafka consumer main drives.
type consumerRunner interface {
	Run(ctx context.Context) error
	Health(ctx context.Context) error
	Close()
}

var newConsumer = func(cfg consumer.Config, h consumer.Handler, log *slog.Logger) (consumerRunner, error) {
	c, err := consumer.New(cfg, h, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// openConsumers builds the signal and sensor-sample consumers when brokers
// are configured. Each consumer closes its client when Run returns; if one
// cannot be built, those already built are closed.
func openConsumers(
	cfg config.Server,
	log *slog.Logger,
	h *health.Handler,
	bus *trigger.Bus,
	monitor *sensorservice.Monitor,
) ([]consumerRunner, error) {
	if cfg.Kafka.Brokers == "" {
		return nil, nil
	}

	routes := []struct {
		name    string
		topic   string
		handler consumer.Handler
	}{
		{name: "signals", topic: cfg.Kafka.SignalTopic, handler: bus.KafkaHandler()},
		{name: "samples", topic: cfg.Kafka.SensorSampleTopic, handler: monitor.KafkaHandler()},
	}

	consumers := make([]consumerRunner, 0, len(routes))
	for _, route := range routes {
		c, err := newConsumer(consumer.Config{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.GroupID + "-" + route.name,
			Topics:  []string{route.topic},
		}, route.handler, log)
		if err != nil {
			for _, built := range consumers {
				built.Close()
			}
			return nil, fmt.Errorf("create %s consumer: %w", route.name, err)
		}
		consumers = append(consumers, c)
	}

	for i, route := range routes {
		h.RegisterCheck("kafka_"+route.name, consumers[i].Health)
		log.Info("consuming kafka topic", "topic", route.topic, "group", cfg.Kafka.GroupID+"-"+route.name)
	}
	return consumers, nil
}
