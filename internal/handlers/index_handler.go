package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><title>imageforge</title></head>
<body>
<h1>imageforge</h1>
<form action="/api/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="image">
  <button type="submit">Upload</button>
</form>
</body>
</html>
`

// Index handles GET / with a static upload form. Cosmetic; outside the
// core lifecycle engine.
func Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}
