package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// OTPVerifications counts one-time-password verifications and their outcome
	// (success|invalid|expired).
	OTPVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_otp_verifications_total",
			Help: "Total number of OTP verification attempts",
		},
		[]string{"result"},
	)

	// EmailsSent counts outbound emails by purpose (otp|notice) and result.
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_emails_sent_total",
			Help: "Total number of emails handed to the SMTP relay",
		},
		[]string{"purpose", "result"},
	)

	// NotificationsBroadcast counts realtime notification fan-outs by stream.
	NotificationsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campushub_notifications_broadcast_total",
			Help: "Total number of notifications pushed to realtime subscribers",
		},
		[]string{"stream"},
	)

	// RealtimeClients tracks currently connected websocket clients.
	RealtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campushub_realtime_clients",
			Help: "Number of connected realtime clients",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campushub_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
