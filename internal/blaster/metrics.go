package blaster

import "github.com/prometheus/client_golang/prometheus"

var (
	incidentsAttempted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "incident_blaster_incidents_attempted_total",
			Help: "Total number of incident creations attempted",
		},
	)
	incidentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "incident_blaster_incidents_created_total",
			Help: "Total number of incidents successfully created in Remedy",
		},
	)
	incidentErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incident_blaster_incident_errors_total",
			Help: "Total number of failed incident creations",
		},
		[]string{"class"},
	)
)

func init() {
	prometheus.MustRegister(incidentsAttempted)
	prometheus.MustRegister(incidentsCreated)
	prometheus.MustRegister(incidentErrors)
}
