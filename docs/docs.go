// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/dafoerum/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "List categories with their forums",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Category"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Create a category",
                "parameters": [
                    {"description": "Category", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.nameRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Category"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/categories/{id}/forums": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Create a forum in a category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true},
                    {"description": "Forum", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.nameRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Forum"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/forums/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Get a forum with its category name",
                "parameters": [
                    {"type": "integer", "description": "Forum ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ForumWithCategory"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/forums/{id}/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Count a forum's threads and posts",
                "parameters": [
                    {"type": "integer", "description": "Forum ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ForumStats"}}
                }
            }
        },
        "/api/forums/{id}/threads": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "List a forum's threads, most recently active first",
                "parameters": [
                    {"type": "integer", "description": "Forum ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.ThreadSummary"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Open a thread with its first post",
                "parameters": [
                    {"type": "integer", "description": "Forum ID", "name": "id", "in": "path", "required": true},
                    {"description": "Thread", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.threadRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Thread"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/threads/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Get a thread",
                "parameters": [
                    {"type": "integer", "description": "Thread ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Thread"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/threads/{id}/latest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Latest post of a thread together with the thread",
                "parameters": [
                    {"type": "integer", "description": "Thread ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LatestActivity"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/threads/{id}/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "List a thread's posts, oldest first",
                "parameters": [
                    {"type": "integer", "description": "Thread ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Post"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Reply to a thread",
                "parameters": [
                    {"type": "integer", "description": "Thread ID", "name": "id", "in": "path", "required": true},
                    {"description": "Post", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.postRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Post"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/posts/latest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Newest posts across all threads",
                "parameters": [
                    {"type": "integer", "description": "Number of posts (default 10, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Post"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/posts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forum"],
                "summary": "Get a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Post"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/posts/{id}/attachments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["attachments"],
                "summary": "List a post's attachments",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Attachment"}}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["attachments"],
                "summary": "Attach a file to a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {"type": "file", "description": "File", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Attachment"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/attachments/{id}": {
            "get": {
                "tags": ["attachments"],
                "summary": "Redirect to a short-lived download link",
                "parameters": [
                    {"type": "string", "description": "Attachment ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "tags": ["attachments"],
                "summary": "Delete an attachment",
                "parameters": [
                    {"type": "string", "description": "Attachment ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Pings the forum store.",
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "handler.nameRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            }
        },
        "handler.postRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"}
            }
        },
        "handler.threadRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "subject": {"type": "string"}
            }
        },
        "model.Attachment": {
            "type": "object",
            "properties": {
                "content_type": {"type": "string"},
                "created_at": {"type": "string"},
                "filename": {"type": "string"},
                "id": {"type": "string"},
                "post_id": {"type": "integer"},
                "size": {"type": "integer"},
                "storage_path": {"type": "string"}
            }
        },
        "model.Category": {
            "type": "object",
            "properties": {
                "forums": {"type": "array", "items": {"$ref": "#/definitions/model.Forum"}},
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "model.Forum": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "latest_thread_id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "model.ForumStats": {
            "type": "object",
            "properties": {
                "posts": {"type": "integer"},
                "threads": {"type": "integer"}
            }
        },
        "model.ForumWithCategory": {
            "type": "object",
            "properties": {
                "category_name": {"type": "string"},
                "forum": {"$ref": "#/definitions/model.Forum"}
            }
        },
        "model.LatestActivity": {
            "type": "object",
            "properties": {
                "post": {"$ref": "#/definitions/model.Post"},
                "thread": {"$ref": "#/definitions/model.Thread"}
            }
        },
        "model.Post": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "thread_id": {"type": "integer"}
            }
        },
        "model.Thread": {
            "type": "object",
            "properties": {
                "forum_id": {"type": "integer"},
                "id": {"type": "integer"},
                "origin_post_id": {"type": "integer"},
                "subject": {"type": "string"}
            }
        },
        "model.ThreadSummary": {
            "type": "object",
            "properties": {
                "latest_post": {"$ref": "#/definitions/model.Post"},
                "post_count": {"type": "integer"},
                "thread": {"$ref": "#/definitions/model.Thread"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Dafoerum API",
	Description:      "Forum categories, threads, posts and attachments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
