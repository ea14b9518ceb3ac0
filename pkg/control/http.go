package control

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ncerzzk/rpos-go/pkg/registry"
	"github.com/ncerzzk/rpos-go/pkg/sched"
)

// envelope is the response shape shared by every HTTP introspection
// endpoint, grounded on the teacher's {retcode, message, payload} convention
// from cmd/access/handlers.go.
type envelope struct {
	Retcode int         `json:"retcode"`
	Message string      `json:"message"`
	Payload interface{} `json:"payload"`
}

func ok(payload interface{}) envelope {
	return envelope{Retcode: 0, Message: "success", Payload: payload}
}

func failed(message string) envelope {
	return envelope{Retcode: 500, Message: message, Payload: nil}
}

// NewHTTPRouter builds the introspection surface: process health, the
// registered module catalog, the named message catalog, and scheduler
// jitter statistics for whichever monitors have been registered with it.
func NewHTTPRouter(monitors map[string]*sched.JitterMonitor) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = os.Stderr
	gin.DefaultErrorWriter = os.Stderr

	router := gin.New()
	router.Use(gin.RecoveryWithWriter(os.Stderr))
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, ok(gin.H{"status": "ok"}))
	})

	router.GET("/modules", func(c *gin.Context) {
		c.JSON(http.StatusOK, ok(Names()))
	})

	router.GET("/messages", func(c *gin.Context) {
		c.JSON(http.StatusOK, ok(registry.Names()))
	})

	router.GET("/scheduler/jitter", func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			stats := make(map[string]gin.H, len(monitors))
			for n, m := range monitors {
				stats[n] = jitterStats(m)
			}
			c.JSON(http.StatusOK, ok(stats))
			return
		}

		monitor, found := monitors[name]
		if !found {
			c.JSON(http.StatusOK, failed("no scheduler jitter monitor registered under that name"))
			return
		}
		c.JSON(http.StatusOK, ok(jitterStats(monitor)))
	})

	return router
}

func jitterStats(m *sched.JitterMonitor) gin.H {
	return gin.H{
		"samples":       len(m.Samples()),
		"average_nanos": m.Average().Nanoseconds(),
		"max_nanos":     m.Max().Nanoseconds(),
	}
}
