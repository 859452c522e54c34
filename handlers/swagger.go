package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the blog API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>blog-api — Swagger</title>
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

// Minimal OpenAPI document describing the public surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "blog-api", "version": "v1.0.0" },
  "paths": {
    "/api/posts": {
      "get": {
        "summary": "List posts, newest first",
        "parameters": [
          {"name":"search","in":"query","schema":{"type":"string"},"description":"case-insensitive match against title or content"},
          {"name":"author","in":"query","schema":{"type":"string"},"description":"filter by owning account id"}
        ],
        "responses": { "200": { "description": "posts and total" } }
      },
      "post": {
        "summary": "Create a post (author = caller)",
        "security": [{"bearerAuth": []}],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["title","content"],"properties":{"title":{"type":"string"},"content":{"type":"string"},"excerpt":{"type":"string"},"status":{"type":"string","enum":["draft","published"]}}}}}},
        "responses": { "201": { "description": "post created" }, "400": { "description": "missing or invalid fields" }, "401": { "description": "unauthenticated" } }
      }
    },
    "/api/posts/{id}": {
      "get": { "summary": "Get a post with resolved author", "responses": { "200": { "description": "post" }, "404": { "description": "not found" } } },
      "put": { "summary": "Partially update an owned post", "security": [{"bearerAuth": []}], "responses": { "200": { "description": "post updated" }, "403": { "description": "caller is not the author" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete an owned post", "security": [{"bearerAuth": []}], "responses": { "200": { "description": "post deleted" }, "403": { "description": "caller is not the author" }, "404": { "description": "not found" } } }
    },
    "/api/auth/register": {
      "post": { "summary": "Register a new account", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","email","password"],"properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "201": { "description": "account and tokens" }, "400": { "description": "invalid input or duplicate email" } } }
    },
    "/api/auth/login": {
      "post": { "summary": "Login with email and password", "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid credentials" } } }
    },
    "/api/auth/refresh": {
      "post": { "summary": "Refresh access token", "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/media": {
      "post": { "summary": "Upload post media", "security": [{"bearerAuth": []}], "responses": { "201": { "description": "object key and url" }, "503": { "description": "storage not configured" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  },
  "components": { "securitySchemes": { "bearerAuth": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } } }
}`
