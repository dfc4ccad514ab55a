package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"
)

// outputMetrics is a type for maintaining materialization decision metrics.
type outputMetrics struct {
	syncDownloads       prometheus.Counter
	backgroundDownloads prometheus.Counter
	trustRejections     prometheus.Counter
}

func newOutputMetrics() *outputMetrics {
	// Note: this will be called for each new OutputChecker, but won't affect the
	// counters on the aggregation gateway.
	return &outputMetrics{
		syncDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "output_downloads_during_execution",
			Help: "Number of outputs required on local disk while their action was still executing",
		}),
		backgroundDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "output_downloads_in_background",
			Help: "Number of outputs handed to the background download pass",
		}),
		trustRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remote_metadata_trust_rejections",
			Help: "Number of remote metadata records rejected because their artifact must be downloaded",
		}),
	}
}

// ReportMetrics pushes the decision counters to the given Prometheus
// pushgateway. It does nothing if no URL is configured.
func (c *OutputChecker) ReportMetrics(gatewayURL string) {
	if gatewayURL == "" {
		log.Debug("No Prometheus pushgateway URL configured, not pushing materialization metrics")
		return
	}
	if err := push.New(gatewayURL, "output_materialization").
		Collector(c.metrics.syncDownloads).
		Collector(c.metrics.backgroundDownloads).
		Collector(c.metrics.trustRejections).
		Format(expfmt.FmtText).
		Push(); err != nil {
		log.Warning("Error pushing to Prometheus pushgateway: %s", err)
	}
}
