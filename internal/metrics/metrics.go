// Package metrics exposes the forum's domain counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Forum counts domain events. A nil *Forum records nothing.
type Forum struct {
	threadsCreated      prometheus.Counter
	postsCreated        prometheus.Counter
	attachmentsUploaded prometheus.Counter
	latestPostsCache    *prometheus.CounterVec
	rateLimited         prometheus.Counter
}

// New registers the forum counters on reg.
func New(reg prometheus.Registerer) *Forum {
	f := promauto.With(reg)
	return &Forum{
		threadsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dafoerum",
			Name:      "threads_created_total",
			Help:      "Threads opened.",
		}),
		postsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dafoerum",
			Name:      "posts_created_total",
			Help:      "Posts written, including thread origin posts.",
		}),
		attachmentsUploaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dafoerum",
			Name:      "attachments_uploaded_total",
			Help:      "Attachments stored.",
		}),
		latestPostsCache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dafoerum",
			Name:      "latest_posts_cache_total",
			Help:      "Latest-posts cache lookups by result.",
		}, []string{"result"}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dafoerum",
			Name:      "write_rate_limited_total",
			Help:      "Write requests rejected by the rate limiter.",
		}),
	}
}

func (f *Forum) ThreadCreated() {
	if f != nil {
		f.threadsCreated.Inc()
	}
}

func (f *Forum) PostCreated() {
	if f != nil {
		f.postsCreated.Inc()
	}
}

func (f *Forum) AttachmentUploaded() {
	if f != nil {
		f.attachmentsUploaded.Inc()
	}
}

// CacheLookup records a latest-posts cache hit or miss.
func (f *Forum) CacheLookup(hit bool) {
	if f == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	f.latestPostsCache.WithLabelValues(result).Inc()
}

func (f *Forum) RateLimited() {
	if f != nil {
		f.rateLimited.Inc()
	}
}
