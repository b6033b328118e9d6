package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wheelhouse/config"
	"wheelhouse/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the wheelhouse service
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	spinsSettledCounter  metric.Int64Counter
	spinsStakedCounter   metric.Int64Counter
	spinsPayoutCounter   metric.Int64Counter
	pocketsDrawnCounter  metric.Int64Counter
	wagersPlacedCounter  metric.Int64Counter
	ledgerEntriesCounter metric.Int64Counter
	natsPublishedCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	interval := time.Duration(mp.config.OTelExportIntervalMillis) * time.Millisecond
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))
	if err := mp.initializeWithReader(reader); err != nil {
		return err
	}

	otel.SetMeterProvider(mp.meterProvider)
	log.Info("Metrics provider initialized successfully")
	return nil
}

// initializeWithReader builds the meter provider around reader. Caller holds mu.
func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("wheelhouse")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&mp.spinsSettledCounter, SpinsSettledTotal, "Total number of settled spins", "1"},
		{&mp.spinsStakedCounter, SpinsStakedTotal, "Total chips staked on settled spins", "{chip}"},
		{&mp.spinsPayoutCounter, SpinsPayoutTotal, "Total chips paid out on settled spins", "{chip}"},
		{&mp.pocketsDrawnCounter, PocketsDrawnTotal, "Number of times each pocket colour was drawn", "1"},
		{&mp.wagersPlacedCounter, WagersPlacedTotal, "Total number of settled wagers by type", "1"},
		{&mp.ledgerEntriesCounter, LedgerEntriesTotal, "Total number of ledger entries appended", "1"},
		{&mp.natsPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published", "1"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}
	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// Subscribe records metrics for committed events on bus
func (mp *MetricsProvider) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeSpinSettled, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.SpinSettledEvent); ok {
			mp.RecordSpin(ctx, ev)
		}
	})
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.BalanceChangeEvent); ok {
			mp.RecordLedgerEntry(ctx, string(ev.Kind))
		}
	})
}

// RecordSpin records one settled spin and each of its wagers
func (mp *MetricsProvider) RecordSpin(ctx context.Context, ev events.SpinSettledEvent) {
	if !mp.isEnabled() {
		return
	}

	result := ResultPush
	switch {
	case ev.Net > 0:
		result = ResultWin
	case ev.Net < 0:
		result = ResultLoss
	}

	mp.spinsSettledCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelResult, result)))
	mp.spinsStakedCounter.Add(ctx, ev.TotalStaked)
	mp.spinsPayoutCounter.Add(ctx, ev.TotalPayout)
	mp.pocketsDrawnCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelColor, string(ev.Color))))

	for _, o := range ev.Outcomes {
		wagerResult := ResultLoss
		if o.Won {
			wagerResult = ResultWin
		}
		mp.wagersPlacedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelType, string(o.Wager.Type)),
			attribute.String(LabelResult, wagerResult),
		))
	}
}

// RecordLedgerEntry records an appended ledger entry of the given kind
func (mp *MetricsProvider) RecordLedgerEntry(ctx context.Context, kind string) {
	if !mp.isEnabled() {
		return
	}
	mp.ledgerEntriesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelKind, kind)))
}

// RecordNATSMessagePublished records a message published to subject
func (mp *MetricsProvider) RecordNATSMessagePublished(subject string) {
	if !mp.isEnabled() {
		return
	}
	mp.natsPublishedCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String(LabelSubject, subject)))
}

func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.enabled
}
