// Package handlers is the thin HTTP transport façade (spec §1's "external
// collaborator"): it streams request bytes into imagesvc and renders
// responses, without containing any of the core's lifecycle logic.
package handlers

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"imageforge/internal/imagesvc"
	"imageforge/internal/imgerr"
)

// UploadHandler implements POST /api/upload.
type UploadHandler struct {
	svc *imagesvc.Service
}

// NewUploadHandler builds an UploadHandler.
func NewUploadHandler(svc *imagesvc.Service) *UploadHandler {
	return &UploadHandler{svc: svc}
}

const uploadMultipartMemory = 32 << 20 // 32MiB held in memory before spilling to temp files

// Upload handles POST /api/upload?ttl_secs=<i64>?. Following the original
// source's api.rs::upload, the multipart file parts are concatenated into a
// single byte buffer before sniffing (see readAllMultipartParts). The
// 200-on-failure wart (see DESIGN.md) applies only to an unparseable
// ttl_secs and to a sniff failure (KindUnsupportedFormat); every
// other error from the pipeline — a DB failure minting the identifier, a
// misconfigured TTL policy, etc. — is a genuine internal error and produces
// 500, mirroring serve_handler.go's Kind-based status dispatch.
func (h *UploadHandler) Upload(c *gin.Context) {
	var requestedTTL *int64
	if raw := c.Query("ttl_secs"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(htmlMessage("invalid ttl_secs")))
			return
		}
		requestedTTL = &v
	}

	data, err := readAllMultipartParts(c)
	if err != nil {
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(htmlMessage("failed to read upload body")))
		return
	}

	id, err := h.svc.Ingest.Ingest(c.Request.Context(), data, requestedTTL)
	if err != nil {
		if imgerr.Is(err, imgerr.KindUnsupportedFormat) {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(htmlMessage(err.Error())))
			return
		}
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(htmlMessage("internal server error")))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte(htmlMessage(fmt.Sprintf("uploaded: your image identifier is %s", id.String()))))
}

// readAllMultipartParts concatenates the bytes of every multipart file part
// into a single buffer, reproducing the original transport's quirk of
// accepting multi-part bodies as a single image (see SPEC_FULL.md). Non-file
// form fields are not included, and the order in which parts under
// different field names are appended is not defined.
func readAllMultipartParts(c *gin.Context) ([]byte, error) {
	if err := c.Request.ParseMultipartForm(uploadMultipartMemory); err != nil {
		return nil, err
	}

	var buf []byte
	form := c.Request.MultipartForm
	if form == nil {
		return buf, nil
	}
	for _, headers := range form.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			chunk, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, err
			}
			buf = append(buf, chunk...)
		}
	}
	return buf, nil
}

func htmlMessage(msg string) string {
	return fmt.Sprintf("<!DOCTYPE html><html><body><p>%s</p></body></html>", html.EscapeString(msg))
}
