package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>socialhub - Swagger</title>
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

// Every path is also served under /api.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "socialhub", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Post": { "type": "object", "properties": { "id": {"type":"string"}, "title": {"type":"string"}, "body": {"type":"string"}, "media": {"type":"string"}, "creationTimestamp": {"type":"string","format":"date-time"} } },
      "Comment": { "type": "object", "properties": { "id": {"type":"string"}, "title": {"type":"string"}, "body": {"type":"string"}, "creationTimestamp": {"type":"string","format":"date-time"} } },
      "Error": { "type": "object", "properties": { "error": {"type":"string"} } }
    }
  },
  "paths": {
    "/posts": {
      "get": { "summary": "List posts", "parameters": [{"name":"limit","in":"query","schema":{"type":"integer"}},{"name":"offset","in":"query","schema":{"type":"integer"}}], "responses": { "200": { "description": "array of posts" } } },
      "post": { "summary": "Create post", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Post"} } } }, "responses": { "201": { "description": "created" }, "400": { "description": "title or body missing" }, "401": { "description": "unauthorized" } } }
    },
    "/posts/{id}": {
      "get": { "summary": "Get post", "responses": { "200": { "description": "post" }, "404": { "description": "not found" } } },
      "put": { "summary": "Replace post", "security": [{"bearer": []}], "responses": { "200": { "description": "replaced" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete post", "security": [{"bearer": []}], "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/comments": {
      "get": { "summary": "List comments", "responses": { "200": { "description": "array of comments" } } },
      "post": { "summary": "Create comment", "security": [{"bearer": []}], "responses": { "201": { "description": "created" }, "400": { "description": "title or body missing" } } }
    },
    "/comments/{id}": {
      "get": { "summary": "Get comment", "responses": { "200": { "description": "comment" }, "404": { "description": "not found" } } },
      "put": { "summary": "Merge non-empty fields into comment", "security": [{"bearer": []}], "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete comment", "security": [{"bearer": []}], "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/media/upload": {
      "post": { "summary": "Upload media", "security": [{"bearer": []}], "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"file":{"type":"string","format":"binary"}}} } } }, "responses": { "200": { "description": "url and name" }, "400": { "description": "file missing or empty" } } }
    },
    "/media/list": { "get": { "summary": "List media names", "responses": { "200": { "description": "array of names" } } } },
    "/media/{name}": {
      "get": { "summary": "Download media", "responses": { "200": { "description": "stream" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete media", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/auth/login": {
      "post": { "summary": "Exchange identity and secret for a bearer token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"identity":{"type":"string"},"secret":{"type":"string"}}}}}}, "responses": { "200": { "description": "token and expiresAt" }, "401": { "description": "invalid credentials" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
