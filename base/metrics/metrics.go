// Package metrics wraps datadog-go to facilitate metric recording.
// Naming convention:
//   - internal process time: *.time
//   - external latency: *.latency
//   - error: *.err
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/bidhaus/goapi/base/env"
	"github.com/bidhaus/goapi/base/log"
)

const (
	// ddRate is the rate metrics are passed to the datadog agent. 1 means always.
	ddRate = 1
	// buffer this many counters before flushing to the statsd agent
	bufferMetrics = 10

	defaultAgentPort = 8125
)

// Ender finishes a BumpTime measurement
type Ender interface {
	End()
}

// Service provides the metric recording interface
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)
	BumpTime(key string, tags ...string) Ender
}

var (
	initOnce sync.Once
	client   *statsd.Client
	baseTags []string
)

func initClient() {
	host := viper.GetString("datadog_host")
	if host == "" {
		// no agent configured, metrics become no-ops
		return
	}
	addr := fmt.Sprintf("%s:%d", host, defaultAgentPort)
	log.Log().WithField("addr", addr).Info("connecting to datadog agent")

	cli, err := statsd.NewBuffered(addr, bufferMetrics)
	if err != nil {
		log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Panic("can't talk to datadog agent")
	}
	client = cli
	baseTags = []string{
		// using empty host removes all tags associated with host
		"host:",
		"pod:" + env.PodName(),
		"env:" + viper.GetString("env_name"),
		"app:" + viper.GetString("app_name"),
	}
}

// New creates a metric client with the package name as key prefix
func New(pkgName string) Service {
	return &metrics{pkgName: pkgName}
}

type metrics struct {
	pkgName string
}

// mergeTags turns variadic "k", "v" pairs into datadog "k:v" tags
func (mt *metrics) mergeTags(tags []string) []string {
	merged := append([]string{}, baseTags...)
	for i := 0; i+1 < len(tags); i += 2 {
		merged = append(merged, tags[i]+":"+tags[i+1])
	}
	return merged
}

func (mt *metrics) BumpAvg(key string, val float64, tags ...string) {
	initOnce.Do(initClient)
	if client == nil {
		return
	}
	// datadog has no plain average; a gauge is the closest fit
	_ = client.Gauge(mt.pkgName+"."+key, val, mt.mergeTags(tags), ddRate)
}

func (mt *metrics) BumpSum(key string, val float64, tags ...string) {
	initOnce.Do(initClient)
	if client == nil {
		return
	}
	_ = client.Count(mt.pkgName+"."+key, int64(val), mt.mergeTags(tags), ddRate)
}

func (mt *metrics) BumpHistogram(key string, val float64, tags ...string) {
	initOnce.Do(initClient)
	if client == nil {
		return
	}
	_ = client.Histogram(mt.pkgName+"."+key, val, mt.mergeTags(tags), ddRate)
}

// BumpTime starts a timer; call End() on the returned value to record the
// elapsed time:
//
//	defer met.BumpTime("my.function.time").End()
func (mt *metrics) BumpTime(key string, tags ...string) Ender {
	initOnce.Do(initClient)
	return &timeTracker{
		metrics: mt,
		key:     key,
		tags:    tags,
		start:   time.Now(),
	}
}

type timeTracker struct {
	metrics *metrics
	key     string
	tags    []string
	start   time.Time
}

func (t *timeTracker) End() {
	if client == nil {
		return
	}
	elapsed := float64(time.Since(t.start) / time.Millisecond)
	_ = client.TimeInMilliseconds(t.metrics.pkgName+"."+t.key, elapsed, t.metrics.mergeTags(t.tags), ddRate)
}
