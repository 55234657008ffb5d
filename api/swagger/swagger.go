package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SisVisitas API",
        "description": "Visitor registration, case tracking and front-desk reporting",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Operator login"},
        {"name": "Visits", "description": "Check-in, check-out and badges"},
        {"name": "Cases", "description": "Citizen cases per topic"},
        {"name": "Citizens", "description": "Visitor directory"},
        {"name": "Reports", "description": "Visit reports"},
        {"name": "Photos", "description": "Visitor photos"},
        {"name": "Audit", "description": "Audit trail"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate operator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current operator",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/visits": {
            "post": {
                "tags": ["Visits"],
                "summary": "Register a visit",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VisitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/visits/active": {
            "get": {
                "tags": ["Visits"],
                "summary": "Visitors still inside",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/visits/recent": {
            "get": {
                "tags": ["Visits"],
                "summary": "Latest visits",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/visits/stats": {
            "get": {
                "tags": ["Visits"],
                "summary": "Same-day counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/visits/checkout": {
            "patch": {
                "tags": ["Visits"],
                "summary": "Check out by badge code",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckoutByBadgeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown badge", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already checked out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/visits/{id}": {
            "get": {
                "tags": ["Visits"],
                "summary": "Visit detail",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/visits/{id}/checkout": {
            "patch": {
                "tags": ["Visits"],
                "summary": "Check a visitor out",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already checked out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/visits/{id}/badge": {
            "get": {
                "tags": ["Visits"],
                "summary": "Printable visitor badge",
                "produces": ["application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "download", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF badge", "schema": {"type": "file"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/visits": {
            "get": {
                "tags": ["Reports"],
                "summary": "Visit report",
                "produces": ["application/pdf", "text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "citizen", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv", "xlsx"]},
                    {"name": "download", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rendered report", "schema": {"type": "file"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cases/{id}/close": {
            "patch": {
                "tags": ["Cases"],
                "summary": "Close a case",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CloseCaseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already closed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/citizens/lookup": {
            "get": {
                "tags": ["Citizens"],
                "summary": "Find a citizen by identifier",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "national_id", "in": "query", "type": "string"},
                    {"name": "passport", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/photos": {
            "post": {
                "tags": ["Photos"],
                "summary": "Upload a visitor photo",
                "consumes": ["multipart/form-data", "application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "image", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/photos/{token}": {
            "get": {
                "tags": ["Photos"],
                "summary": "Serve a stored photo",
                "produces": ["image/jpeg", "image/png"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Photo", "schema": {"type": "file"}},
                    "403": {"description": "Invalid link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/audit-logs": {
            "get": {
                "tags": ["Audit"],
                "summary": "List audit entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "entity", "in": "query", "type": "string"},
                    {"name": "actor", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "CitizenInput": {
            "type": "object",
            "properties": {
                "national_id": {"type": "string"},
                "passport": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "origin": {"type": "string"}
            },
            "required": ["name"]
        },
        "VisitRequest": {
            "type": "object",
            "properties": {
                "citizen": {"$ref": "#/definitions/CitizenInput"},
                "topic_id": {"type": "integer"},
                "target_unit": {"type": "string"},
                "reason": {"type": "string"},
                "photo_path": {"type": "string"},
                "reopen_justification": {"type": "string"}
            },
            "required": ["citizen", "topic_id", "target_unit"]
        },
        "CheckoutByBadgeRequest": {
            "type": "object",
            "properties": {
                "badge_code": {"type": "string"}
            },
            "required": ["badge_code"]
        },
        "CloseCaseRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            },
            "required": ["reason"]
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
