package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/v1/posts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/v1/posts/:id", "200"))

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+id, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/v1/posts/:id", "200"))
	assert.Equal(t, before+2, after)
}

func TestRecordFeedCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(feedCacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(feedCacheLookups.WithLabelValues("miss"))

	RecordFeedCacheLookup(true)
	RecordFeedCacheLookup(false)
	RecordFeedCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(feedCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(feedCacheLookups.WithLabelValues("miss")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	RecordFeedCacheLookup(true)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "instaclone_feed_cache_lookups_total"))
}

func TestHubCollectors(t *testing.T) {
	streams := testutil.ToFloat64(hubStreams)
	drops := testutil.ToFloat64(hubDropped.WithLabelValues("friend_request.received"))

	StreamOpened()
	StreamOpened()
	StreamClosed()
	RecordHubDrop("friend_request.received")

	assert.Equal(t, streams+1, testutil.ToFloat64(hubStreams))
	assert.Equal(t, drops+1, testutil.ToFloat64(hubDropped.WithLabelValues("friend_request.received")))
}
