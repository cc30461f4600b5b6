package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelquota_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fuelquota_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	DispenseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelquota_dispense_total",
			Help: "Total number of dispense attempts by outcome.",
		},
		[]string{"outcome"},
	)

	DispensedLitres = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelquota_dispensed_litres_total",
			Help: "Total litres of fuel dispensed by fuel type.",
		},
		[]string{"fuel_type"},
	)

	OTPIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelquota_otp_issued_total",
			Help: "Total number of verification codes issued by purpose.",
		},
		[]string{"purpose"},
	)

	OTPVerifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelquota_otp_verified_total",
			Help: "Total number of verification attempts by result.",
		},
		[]string{"result"},
	)

	DistributionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelquota_distribution_transitions_total",
			Help: "Total number of distribution status transitions.",
		},
		[]string{"to"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		DispenseTotal,
		DispensedLitres,
		OTPIssuedTotal,
		OTPVerifiedTotal,
		DistributionTransitions,
	)
}
