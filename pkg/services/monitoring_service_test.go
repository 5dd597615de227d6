package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummaryAggregation(t *testing.T) {
	ms := NewMonitoringService()
	now := time.Now()

	ms.LogRequest(RequestLogEntry{Timestamp: now, Path: "/api/v1/products", Method: "GET", StatusCode: 200, ResponseTime: 10 * time.Millisecond})
	ms.LogRequest(RequestLogEntry{Timestamp: now, Path: "/api/v1/products", Method: "GET", StatusCode: 200, ResponseTime: 30 * time.Millisecond})
	ms.LogRequest(RequestLogEntry{Timestamp: now, Path: "/api/v1/pricing/apply", Method: "POST", StatusCode: 500, ResponseTime: 50 * time.Millisecond})
	ms.LogRequest(RequestLogEntry{Timestamp: now, Path: "/api/v1/products", Method: "POST", StatusCode: 400, ResponseTime: 5 * time.Millisecond})

	summary := ms.Summary(24)

	assert.Equal(t, 4, summary.TotalRequests)
	assert.Equal(t, 3, summary.Endpoints["/api/v1/products"])
	assert.Equal(t, 1, summary.Endpoints["/api/v1/pricing/apply"])

	assert.Equal(t, 2, summary.StatusCodes["2xx Success"])
	assert.Equal(t, 1, summary.StatusCodes["4xx Client Error"])
	assert.Equal(t, 1, summary.StatusCodes["5xx Server Error"])

	// パスごとの平均応答時間（ミリ秒）
	assert.Equal(t, int64(15), summary.AvgResponseTimes["/api/v1/products"])
	assert.Equal(t, int64(50), summary.AvgResponseTimes["/api/v1/pricing/apply"])

	// 5xxのみが直近エラーとして返る
	assert.Len(t, summary.RecentErrors, 1)
	assert.Equal(t, "/api/v1/pricing/apply", summary.RecentErrors[0].Path)
}

func TestSummaryPeriodFilter(t *testing.T) {
	ms := NewMonitoringService()

	// 期間外のログは集計から除外される
	ms.LogRequest(RequestLogEntry{Timestamp: time.Now().Add(-2 * time.Hour), Path: "/api/v1/products", StatusCode: 200})
	ms.LogRequest(RequestLogEntry{Timestamp: time.Now(), Path: "/api/v1/products", StatusCode: 200})

	summary := ms.Summary(1)
	assert.Equal(t, 1, summary.TotalRequests)

	summary = ms.Summary(24)
	assert.Equal(t, 2, summary.TotalRequests)
}
