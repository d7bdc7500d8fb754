package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "volunteerhub_registrations_total", Help: "Successful event registrations"},
	)
	RegistrationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "volunteerhub_registrations_rejected_total", Help: "Rejected registrations by reason"},
		[]string{"reason"},
	)
	NotificationsFanout = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "volunteerhub_notification_recipients_total", Help: "NotificationUser rows created"},
	)
	SchedulerTicks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "volunteerhub_scheduler_ticks_total", Help: "Event scheduler ticks"},
	)
)

func Register() {
	prometheus.MustRegister(RegistrationsTotal, RegistrationsRejected, NotificationsFanout, SchedulerTicks)
}
