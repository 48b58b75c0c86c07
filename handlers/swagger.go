package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the incident service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
// basePath is the prefix the incident routes are mounted under (e.g. "/api").
func RegisterSwagger(rg *gin.Engine, basePath string) {
	doc := strings.ReplaceAll(swaggerJSON, "{{base}}", strings.TrimRight(basePath, "/"))

	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>incident-service — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI document for the incident endpoints. Incident bodies are free-form
// objects; issue_number is always assigned by the server.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "incident-service", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Incident": { "type": "object", "additionalProperties": true, "properties": { "issue_number": { "type": "integer", "readOnly": true } } },
      "Error": { "type": "object", "properties": { "error": { "type": "string" }, "message": { "type": "string" } } }
    },
    "parameters": {
      "IssueNumber": { "name": "issue_number", "in": "path", "required": true, "schema": { "type": "integer", "minimum": 0 } }
    }
  },
  "paths": {
    "{{base}}/incidents": {
      "get": {
        "summary": "List incidents",
        "responses": { "200": { "description": "all incidents", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/Incident" } } } } }, "500": { "description": "store error" } }
      },
      "post": {
        "summary": "Create an incident and allocate its issue number",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Incident" } } } },
        "responses": { "201": { "description": "created; body carries issue_number" }, "400": { "description": "no data provided" }, "500": { "description": "store error" } }
      }
    },
    "{{base}}/incidents/{issue_number}": {
      "put": {
        "summary": "Merge fields into an incident",
        "parameters": [ { "$ref": "#/components/parameters/IssueNumber" } ],
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Incident" } } } },
        "responses": { "200": { "description": "updated_data holds the merged incident" }, "400": { "description": "no data provided" }, "404": { "description": "no such incident" }, "500": { "description": "store error" } }
      },
      "delete": {
        "summary": "Delete an incident",
        "parameters": [ { "$ref": "#/components/parameters/IssueNumber" } ],
        "responses": { "200": { "description": "deleted" }, "404": { "description": "no such incident" }, "500": { "description": "store error" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition format" } } } }
  }
}`
