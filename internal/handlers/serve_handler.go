package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"imageforge/internal/imageformat"
	"imageforge/internal/imagesvc"
	"imageforge/internal/imgerr"
)

// ServeHandler implements GET /api/:identifier.
type ServeHandler struct {
	svc *imagesvc.Service
}

// NewServeHandler builds a ServeHandler.
func NewServeHandler(svc *imagesvc.Service) *ServeHandler {
	return &ServeHandler{svc: svc}
}

// Serve handles GET /api/:identifier?format=&width=&height=, per spec §6.
func (h *ServeHandler) Serve(c *gin.Context) {
	id, err := imagesvc.ParseIdentifier(c.Param("identifier"))
	if err != nil {
		c.String(http.StatusBadRequest, "bad identifier")
		return
	}

	var format *imageformat.Format
	if raw := c.Query("format"); raw != "" {
		f, err := imagesvc.ParseFormat(raw)
		if err != nil {
			c.String(http.StatusBadRequest, "unsupported format")
			return
		}
		format = &f
	}

	width, err := parseOptionalInt(c.Query("width"))
	if err != nil {
		c.String(http.StatusBadRequest, "bad width")
		return
	}
	height, err := parseOptionalInt(c.Query("height"))
	if err != nil {
		c.String(http.StatusBadRequest, "bad height")
		return
	}

	result, err := h.svc.Transcode.Serve(c.Request.Context(), id, format, width, height)
	if err != nil {
		writeServeError(c, err)
		return
	}

	c.Data(http.StatusOK, result.Format.MIME(), result.Bytes)
}

func writeServeError(c *gin.Context, err error) {
	var status int
	switch {
	case imgerr.Is(err, imgerr.KindNotFound), imgerr.Is(err, imgerr.KindNotYetComputed):
		status = http.StatusNotFound
	case imgerr.Is(err, imgerr.KindBadIdentifier), imgerr.Is(err, imgerr.KindUnsupportedFormat):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	var ie *imgerr.Error
	msg := "internal server error"
	if errors.As(err, &ie) {
		msg = ie.Msg
	}
	c.String(status, msg)
}

func parseOptionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
