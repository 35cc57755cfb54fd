package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for the deployment writer and the backup notifier
var (
	DeploymentWriterRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deployment_writer_requests_total",
			Help: "Total number of deployment writer requests by action and write outcome",
		},
		[]string{"action", "outcome"},
	)

	BackupNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_notifications_total",
			Help: "Total number of backup notifications rendered by backup status",
		},
		[]string{"status"},
	)

	NotificationSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sends_total",
			Help: "Total number of per-recipient email sends by result",
		},
		[]string{"result"},
	)

	NotificationSendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_send_duration_seconds",
			Help:    "Duration of a full notification fan-out",
			Buckets: prometheus.DefBuckets,
		},
	)
)

var registerOnce sync.Once

// Register registers all Prometheus metrics with the default registry.
// Calling it more than once is a no-op.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(DeploymentWriterRequestsTotal)
		prometheus.MustRegister(BackupNotificationsTotal)
		prometheus.MustRegister(NotificationSendsTotal)
		prometheus.MustRegister(NotificationSendDuration)
	})
}

// ObserveWrite counts one deployment writer request
func ObserveWrite(action, outcome string) {
	DeploymentWriterRequestsTotal.WithLabelValues(action, outcome).Inc()
}

// ObserveSend counts one per-recipient send
func ObserveSend(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	NotificationSendsTotal.WithLabelValues(result).Inc()
}
