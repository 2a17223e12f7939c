package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Newsroom API",
        "description": "Editorial backend for news publishing, recruitment and internships",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, refresh and session management"},
        {"name": "Public", "description": "Unauthenticated site endpoints"},
        {"name": "News", "description": "Article drafting, review and publication"},
        {"name": "Media", "description": "Uploads and media review"},
        {"name": "Comments", "description": "Reader comments and moderation"},
        {"name": "Categories", "description": "Article taxonomy"},
        {"name": "Assignments", "description": "Content work orders"},
        {"name": "Users", "description": "Staff account management"},
        {"name": "Vacancies", "description": "Job vacancies and candidates"},
        {"name": "Internships", "description": "Internship applications"},
        {"name": "Activity", "description": "Audit trail"},
        {"name": "Exports", "description": "CSV and PDF exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Exchange a refresh token for a new token pair",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/news": {
            "get": {
                "tags": ["Public"],
                "summary": "List published articles",
                "parameters": [
                    {"name": "category_id", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/news/slug/{slug}": {
            "get": {
                "tags": ["Public"],
                "summary": "Get a published article by slug",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/public/news/{id}/comments": {
            "get": {
                "tags": ["Public"],
                "summary": "List approved comments on an article",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Public"],
                "summary": "Comment on a published article",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/vacancies": {
            "get": {
                "tags": ["Public"],
                "summary": "List open vacancies",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/vacancies/{id}/apply": {
            "post": {
                "tags": ["Public"],
                "summary": "Apply to an open vacancy",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyCandidateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Vacancy closed"}
                }
            }
        },
        "/public/internships": {
            "post": {
                "tags": ["Public"],
                "summary": "Submit an internship application",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/news": {
            "get": {
                "tags": ["News"],
                "summary": "List articles for staff",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "category_id", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["News"],
                "summary": "Draft a new article",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateNewsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/news/{id}/submit": {
            "post": {
                "tags": ["News"],
                "summary": "Submit an article for review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid transition"}
                }
            }
        },
        "/news/{id}/approve": {
            "post": {
                "tags": ["News"],
                "summary": "Approve a pending article",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/news/{id}/publish": {
            "post": {
                "tags": ["News"],
                "summary": "Publish an approved article",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/news/{id}/schedule": {
            "post": {
                "tags": ["News"],
                "summary": "Schedule an approved article",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleNewsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/media": {
            "post": {
                "tags": ["Media"],
                "summary": "Upload a media file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "news_id", "in": "formData", "required": true, "type": "string"},
                    {"name": "position", "in": "formData", "type": "integer"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "File too large"},
                    "415": {"description": "Unsupported media type"}
                }
            }
        },
        "/exports/candidates": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export candidates",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/exports/internships": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export internship applications",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateNewsRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "excerpt": {"type": "string"},
                "body": {"type": "string"},
                "cover_path": {"type": "string"},
                "category_id": {"type": "string"},
                "author_email": {"type": "string"}
            },
            "required": ["title", "body"]
        },
        "ScheduleNewsRequest": {
            "type": "object",
            "properties": {
                "publish_at": {"type": "string", "format": "date-time"}
            },
            "required": ["publish_at"]
        },
        "CreateCommentRequest": {
            "type": "object",
            "properties": {
                "author_name": {"type": "string"},
                "body": {"type": "string"}
            },
            "required": ["body"]
        },
        "ApplyCandidateRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "cv_path": {"type": "string"},
                "portfolio_files": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["full_name", "email"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
