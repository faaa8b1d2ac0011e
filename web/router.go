package web

import (
	"errors"

	"github.com/folionet/folio/domain"
	"github.com/folionet/folio/util"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Router builds the gateway's HTTP surface over the injected stores. The
// engine is returned so the caller owns the listener lifecycle (and tests can
// drive it through httptest).
func Router(conf *util.AppConfig, users domain.UserStore, posts domain.PostStore) *gin.Engine {
	g := gin.Default()
	g.Use(gzip.Gzip(gzip.DefaultCompression))
	g.Use(MetricsMiddleware())

	// Global rate limiter: 10 requests per second per IP, burst of 20
	globalLimiter := NewRateLimiter(rate.Limit(10), 20)
	g.Use(RateLimitMiddleware(globalLimiter))

	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// RSS feed of a user's visible posts
	g.GET("/feed", func(c *gin.Context) {
		c.Header("Content-Type", "application/xml; charset=utf-8")

		handle := c.Query("handle")
		rss, err := GetRSS(users, posts, handle, conf)
		if err != nil {
			c.Render(404, render.String{Format: ""})
		} else {
			c.Render(200, render.String{Format: rss})
		}
	})

	g.GET("/feed/:id", func(c *gin.Context) {
		c.Header("Content-Type", "application/xml; charset=utf-8")

		postId, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.Render(404, render.String{Format: ""})
			return
		}

		rssItem, err := GetRSSItem(posts, postId, conf)
		if err != nil {
			c.Render(404, render.String{Format: ""})
		} else {
			c.Render(200, render.String{Format: rssItem})
		}
	})

	// Stricter rate limit for ActivityPub endpoints: 5 req/sec per IP
	apLimiter := RateLimitMiddleware(NewRateLimiter(rate.Limit(5), 10))

	// Serve individual posts as ActivityPub Note objects
	g.GET("/ap/posts/:id", apLimiter, func(c *gin.Context) {
		c.Header("Content-Type", "application/activity+json; charset=utf-8")

		postId, err := uuid.Parse(c.Param("id"))
		if err != nil {
			// An unparsable id is as absent as an unknown one
			c.Render(404, render.String{Format: NotFoundBody()})
			return
		}

		note, err := GetNoteObject(posts, postId, conf)
		if err != nil {
			c.Render(404, render.String{Format: NotFoundBody()})
		} else {
			c.Render(200, render.String{Format: note})
		}
	})

	g.GET("/ap/users/:handle", apLimiter, func(c *gin.Context) {
		c.Header("Content-Type", "application/activity+json; charset=utf-8")

		actor, err := GetActor(users, c.Param("handle"), conf)
		if err != nil {
			c.Render(404, render.String{Format: NotFoundBody()})
		} else {
			c.Render(200, render.String{Format: actor})
		}
	})

	g.GET("/ap/users/:handle/outbox", apLimiter, func(c *gin.Context) {
		c.Header("Content-Type", "application/activity+json; charset=utf-8")

		page := ParsePageParam(c.Query("page"))
		outbox, err := GetOutbox(users, posts, c.Param("handle"), page, conf)
		if err != nil {
			c.Render(404, render.String{Format: NotFoundBody()})
		} else {
			c.Render(200, render.String{Format: outbox})
		}
	})

	// Advertised on the actor but not backed by follower accounting yet;
	// integrators wiring inbound federation replace these.
	g.GET("/ap/users/:handle/followers", apLimiter, func(c *gin.Context) {
		c.Header("Content-Type", "application/activity+json; charset=utf-8")
		c.Render(200, render.String{Format: "{}"})
	})

	g.GET("/ap/users/:handle/following", apLimiter, func(c *gin.Context) {
		c.Header("Content-Type", "application/activity+json; charset=utf-8")
		c.Render(200, render.String{Format: "{}"})
	})

	g.GET("/.well-known/webfinger", apLimiter, func(c *gin.Context) {
		c.Header("Content-Type", "application/json; charset=utf-8")

		resp, err := GetWebfinger(users, c.Query("resource"), conf)
		switch {
		case errors.Is(err, ErrInvalidResource):
			c.Render(400, render.String{Format: BadRequestBody()})
		case err != nil:
			c.Render(404, render.String{Format: NotFoundBody()})
		default:
			c.Render(200, render.String{Format: resp})
		}
	})

	return g
}
