// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	var r Recorder

	before := testutil.ToFloat64(RecordsParsedTotal.WithLabelValues("u1.base"))
	r.RecordsParsed("u1.base", 80000)
	after := testutil.ToFloat64(RecordsParsedTotal.WithLabelValues("u1.base"))
	if after-before != 80000 {
		t.Errorf("parsed counter delta = %v, want 80000", after-before)
	}

	before = testutil.ToFloat64(RecordsSkippedTotal.WithLabelValues("u.item", "field_count"))
	r.RecordSkipped("u.item", "field_count")
	r.RecordSkipped("u.item", "field_count")
	after = testutil.ToFloat64(RecordsSkippedTotal.WithLabelValues("u.item", "field_count"))
	if after-before != 2 {
		t.Errorf("skipped counter delta = %v, want 2", after-before)
	}
}

func TestRecordDatasetShape(t *testing.T) {
	RecordDatasetShape("ml_100k", 943, 1682, 100000)

	if got := testutil.ToFloat64(DatasetUsers.WithLabelValues("ml_100k")); got != 943 {
		t.Errorf("users gauge = %v, want 943", got)
	}
	if got := testutil.ToFloat64(DatasetItems.WithLabelValues("ml_100k")); got != 1682 {
		t.Errorf("items gauge = %v, want 1682", got)
	}
	if got := testutil.ToFloat64(DatasetEdges.WithLabelValues("ml_100k")); got != 100000 {
		t.Errorf("edges gauge = %v, want 100000", got)
	}
}

func TestRecordPartitionSizes(t *testing.T) {
	RecordPartitionSizes("ml_1m", 855161, 45008, 100021)

	for _, tt := range []struct {
		partition string
		want      float64
	}{
		{"train", 855161},
		{"val", 45008},
		{"test", 100021},
	} {
		if got := testutil.ToFloat64(PartitionEdges.WithLabelValues("ml_1m", tt.partition)); got != tt.want {
			t.Errorf("partition %s gauge = %v, want %v", tt.partition, got, tt.want)
		}
	}
}

func TestRecordPipelineRun(t *testing.T) {
	okBefore := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("douban", "ok"))
	errBefore := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("douban", "error"))

	RecordPipelineRun("douban", nil)
	RecordPipelineRun("douban", errors.New("container checksum mismatch"))

	if got := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("douban", "ok")); got-okBefore != 1 {
		t.Errorf("ok counter delta = %v, want 1", got-okBefore)
	}
	if got := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("douban", "error")); got-errBefore != 1 {
		t.Errorf("error counter delta = %v, want 1", got-errBefore)
	}
}

func TestRecordStageDuration(t *testing.T) {
	// Histograms cannot be read back with ToFloat64; the observation just
	// must not panic.
	RecordStageDuration("load", 250*time.Millisecond)
	RecordStageDuration("split", 10*time.Second)
	RecordStageDuration("write", 2*time.Second)
}

func TestCacheCounters(t *testing.T) {
	hitsBefore := testutil.ToFloat64(CacheHits)
	missesBefore := testutil.ToFloat64(CacheMisses)

	RecordCacheHit()
	RecordCacheMiss()
	RecordCacheMiss()

	if got := testutil.ToFloat64(CacheHits); got-hitsBefore != 1 {
		t.Errorf("cache hits delta = %v, want 1", got-hitsBefore)
	}
	if got := testutil.ToFloat64(CacheMisses); got-missesBefore != 2 {
		t.Errorf("cache misses delta = %v, want 2", got-missesBefore)
	}
}
