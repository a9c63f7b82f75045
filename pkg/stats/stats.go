package stats

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const gigabyte = 1 << 30

// EnableRuntimeStatistics starts a go routine that periodically logs memory
// and go routine usage of the daemon process. On shutdown the collected
// prometheus metrics, checkout counters included, are dumped to dumpFile.
func EnableRuntimeStatistics(
	ctx context.Context, interval time.Duration, dumpFile string,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logRuntimeStatistics()
			case <-ctx.Done():
				if err := DumpPrometheusDefaults(dumpFile); err != nil {
					log.WithError(err).Warn("failed to dump metrics")
				}
				return
			}
		}
	}()
}

func logRuntimeStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"Heap allocated: %.3fGB, Total allocated: %.3fGB, Num of go routines: %v",
		float64(memStats.HeapAlloc)/gigabyte,
		float64(memStats.TotalAlloc)/gigabyte,
		runtime.NumGoroutine(),
	)
}

// DumpPrometheusDefaults writes the metrics of the default prometheus
// gatherer to the given file.
func DumpPrometheusDefaults(filename string) error {
	file, err := os.OpenFile(
		filename, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	metricFamily, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
