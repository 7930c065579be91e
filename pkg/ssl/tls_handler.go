package ssl

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// TlsHandler redirects plain HTTP requests to the HTTPS listener.
func TlsHandler(host string, port int) gin.HandlerFunc {
	return func(c *gin.Context) {
		secureMiddleware := secure.New(secure.Options{
			SSLRedirect: true,
			SSLHost:     host + ":" + strconv.Itoa(port),
		})
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			// secure already wrote the redirect response; just stop the chain.
			return
		}

		c.Next()
	}
}
