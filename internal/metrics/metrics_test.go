// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramSamples returns the sample count and sum of a histogram.
func histogramSamples(t *testing.T, h prometheus.Histogram) (uint64, float64) {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/places", "200"))

	RecordAPIRequest("GET", "/api/v1/places", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/places", "200"))
	if after-before != 1 {
		t.Errorf("request counter delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active after inc = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active after dec = %v, want %v", got, before)
	}
}

func TestRecordSweep(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{"success", nil, "success"},
		{"failure", errors.New("store closed"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(SweepRuns.WithLabelValues(tt.result))
			RecordSweep(time.Second, tt.err)
			after := testutil.ToFloat64(SweepRuns.WithLabelValues(tt.result))
			if after-before != 1 {
				t.Errorf("sweep %s counter delta = %v, want 1", tt.result, after-before)
			}
		})
	}
}

func TestRecordSweep_ObservesDuration(t *testing.T) {
	count, sum := histogramSamples(t, SweepDuration)

	RecordSweep(1500*time.Millisecond, nil)

	gotCount, gotSum := histogramSamples(t, SweepDuration)
	if gotCount != count+1 {
		t.Errorf("sample count = %d, want %d", gotCount, count+1)
	}
	if d := gotSum - sum; d < 1.49 || d > 1.51 {
		t.Errorf("sample sum delta = %v, want 1.5", d)
	}
}
