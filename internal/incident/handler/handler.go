package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/incidentdesk/incident-service/internal/incident/service"
	"github.com/incidentdesk/incident-service/pkg/logger"
)

const (
	msgNoData   = "No data provided"
	msgNotFound = "No incident found with that issue number"
)

// RegisterIncidentRoutes mounts the incident CRUD endpoints on r.
func RegisterIncidentRoutes(r gin.IRouter, svc service.Service) {
	h := &incidentHandler{svc: svc}
	r.GET("/incidents", h.list)
	r.POST("/incidents", h.create)
	r.DELETE("/incidents/:issue_number", h.delete)
	r.PUT("/incidents/:issue_number", h.update)
}

type incidentHandler struct {
	svc service.Service
}

func (h *incidentHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *incidentHandler) create(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	n, err := h.svc.Create(c.Request.Context(), fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Incident added successfully!", "issue_number": n})
}

func (h *incidentHandler) delete(c *gin.Context) {
	n, ok := issueNumberParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), n); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Incident deleted successfully!"})
}

func (h *incidentHandler) update(c *gin.Context) {
	n, ok := issueNumberParam(c)
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	inc, err := h.svc.Update(c.Request.Context(), n, fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Incident updated successfully!", "updated_data": inc})
}

// bindFields decodes a non-empty JSON object body. Absent, malformed,
// non-object and empty-object bodies are all rejected with 400. Numbers keep
// integer precision: integral values become int64, the rest float64.
func bindFields(c *gin.Context) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	err := errors.New("empty body")
	if c.Request.Body != nil {
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		err = dec.Decode(&fields)
	}
	if err != nil || len(fields) == 0 {
		if err != nil {
			logger.Debugf("rejecting request body: %v", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoData})
		return nil, false
	}
	for k, v := range fields {
		fields[k] = convertNumbers(v)
	}
	return fields, true
}

func convertNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		for k, e := range t {
			t[k] = convertNumbers(e)
		}
		return t
	case []interface{}:
		for i, e := range t {
			t[i] = convertNumbers(e)
		}
		return t
	default:
		return v
	}
}

// issueNumberParam parses :issue_number. Anything that is not a non-negative
// integer does not name an incident route and gets a 404.
func issueNumberParam(c *gin.Context) (int64, bool) {
	n, err := strconv.ParseInt(c.Param("issue_number"), 10, 64)
	if err != nil || n < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue number must be an integer"})
		return 0, false
	}
	return n, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoData})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
