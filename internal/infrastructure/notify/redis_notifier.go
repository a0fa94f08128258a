package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/flexiwear/backend/internal/domain/procurement"
	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Default Pub/Sub channels
const (
	DefaultAlertChannel    = "replenishment:alerts"
	DefaultSupplierChannel = "procurement:supplier"
)

// RedisConfig holds Redis connection settings for the notifier
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisNotifier publishes replenishment alerts and supplier order
// notifications over Redis Pub/Sub. Delivery is fire and forget: the
// channels feed dashboards and the supplier integration relay, the database
// rows remain the durable record.
type RedisNotifier struct {
	client          *redis.Client
	ownsClient      bool
	alertChannel    string
	supplierChannel string
	logger          *zap.Logger
}

// RedisNotifierOption is a functional option for configuring the notifier
type RedisNotifierOption func(*RedisNotifier)

// WithAlertChannel sets the alert Pub/Sub channel name
func WithAlertChannel(channel string) RedisNotifierOption {
	return func(n *RedisNotifier) {
		n.alertChannel = channel
	}
}

// WithSupplierChannel sets the supplier Pub/Sub channel name
func WithSupplierChannel(channel string) RedisNotifierOption {
	return func(n *RedisNotifier) {
		n.supplierChannel = channel
	}
}

// WithNotifierLogger sets the logger for the notifier
func WithNotifierLogger(logger *zap.Logger) RedisNotifierOption {
	return func(n *RedisNotifier) {
		n.logger = logger
	}
}

// NewRedisNotifier creates a notifier with its own Redis connection
func NewRedisNotifier(cfg RedisConfig, opts ...RedisNotifierOption) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	notifier := newRedisNotifier(client, opts...)
	notifier.ownsClient = true
	return notifier, nil
}

// NewRedisNotifierWithClient creates a notifier over an existing client.
// The caller retains ownership of the client.
func NewRedisNotifierWithClient(client *redis.Client, opts ...RedisNotifierOption) *RedisNotifier {
	return newRedisNotifier(client, opts...)
}

func newRedisNotifier(client *redis.Client, opts ...RedisNotifierOption) *RedisNotifier {
	notifier := &RedisNotifier{
		client:          client,
		alertChannel:    DefaultAlertChannel,
		supplierChannel: DefaultSupplierChannel,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(notifier)
	}
	return notifier
}

// alertMessage is the wire format published on the alert channel
type alertMessage struct {
	ProductCode  string    `json:"product_code"`
	ForecastDate time.Time `json:"forecast_date"`
	Urgency      string    `json:"urgency"`
	OnHand       int       `json:"on_hand"`
	ReorderPoint int       `json:"reorder_point"`
	SuggestedQty int       `json:"suggested_qty"`
}

// supplierMessage is the wire format published on the supplier channel
type supplierMessage struct {
	Event        string     `json:"event"`
	OrderNumber  string     `json:"order_number"`
	SupplierID   string     `json:"supplier_id"`
	SupplierName string     `json:"supplier_name"`
	TotalAmount  string     `json:"total_amount"`
	ExpectedAt   *time.Time `json:"expected_at,omitempty"`
	Reason       string     `json:"reason,omitempty"`
}

// PublishAlert publishes a replenishment alert
func (n *RedisNotifier) PublishAlert(ctx context.Context, alert *replenishment.ReplenishmentAlert) error {
	msg := alertMessage{
		ProductCode:  alert.ProductCode,
		ForecastDate: alert.ForecastDate,
		Urgency:      string(alert.Urgency),
		OnHand:       alert.OnHand,
		ReorderPoint: alert.ReorderPoint,
		SuggestedQty: alert.SuggestedQty,
	}
	return n.publish(ctx, n.alertChannel, msg)
}

// NotifyOrderSent tells the supplier a purchase order is on its way
func (n *RedisNotifier) NotifyOrderSent(ctx context.Context, order *procurement.PurchaseOrder) error {
	return n.publish(ctx, n.supplierChannel, supplierMessage{
		Event:        "order_sent",
		OrderNumber:  order.OrderNumber,
		SupplierID:   order.SupplierID.String(),
		SupplierName: order.SupplierName,
		TotalAmount:  order.TotalAmount.String(),
		ExpectedAt:   order.ExpectedDeliveryAt,
	})
}

// NotifyOrderCancelled tells the supplier an already-sent order was cancelled
func (n *RedisNotifier) NotifyOrderCancelled(ctx context.Context, order *procurement.PurchaseOrder) error {
	return n.publish(ctx, n.supplierChannel, supplierMessage{
		Event:        "order_cancelled",
		OrderNumber:  order.OrderNumber,
		SupplierID:   order.SupplierID.String(),
		SupplierName: order.SupplierName,
		TotalAmount:  order.TotalAmount.String(),
		Reason:       order.CancelReason,
	})
}

func (n *RedisNotifier) publish(ctx context.Context, channel string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := n.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	n.logger.Debug("notification published", zap.String("channel", channel))
	return nil
}

// Close releases the Redis connection when the notifier owns it
func (n *RedisNotifier) Close() error {
	if n.ownsClient {
		return n.client.Close()
	}
	return nil
}
