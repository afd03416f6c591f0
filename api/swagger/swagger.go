package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Heronix SIS Records API",
        "description": "Withdrawal clearance, health records and due-review board",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "APIKey": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    },
    "tags": [
        {"name": "Withdrawals", "description": "Withdrawal cases and clearance checklist"},
        {"name": "Exports", "description": "Signed document downloads"},
        {"name": "Health", "description": "Nurse office medication records"},
        {"name": "Locks", "description": "Edit lock requests"},
        {"name": "Reviews", "description": "Records due for review"},
        {"name": "API Keys", "description": "Integration key management"},
        {"name": "Enums", "description": "Display labels and colours"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/api/v1/withdrawals": {
            "get": {
                "tags": ["Withdrawals"],
                "summary": "List withdrawals",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string", "description": "Comma separated statuses"},
                    {"name": "reason", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Withdrawals"],
                "summary": "Open a withdrawal case",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWithdrawalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Student has an open case or is not active"}
                }
            }
        },
        "/api/v1/withdrawals/{id}": {
            "get": {
                "tags": ["Withdrawals"],
                "summary": "Get withdrawal by id or number",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/withdrawals/{id}/summary": {
            "get": {
                "tags": ["Withdrawals"],
                "summary": "Clearance summary",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/withdrawals/{id}/checklist": {
            "patch": {
                "tags": ["Withdrawals"],
                "summary": "Tick or untick clearance items",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChecklistUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/withdrawals/{id}/transition": {
            "post": {
                "tags": ["Withdrawals"],
                "summary": "Change withdrawal status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/api/v1/withdrawals/{id}/export": {
            "get": {
                "tags": ["Withdrawals"],
                "summary": "Generate clearance sheet",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "201": {"description": "Signed download link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/exports/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a generated document",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Invalid or expired token"},
                    "404": {"description": "Document expired"}
                }
            }
        },
        "/api/v1/medications": {
            "post": {
                "tags": ["Health"],
                "summary": "Record a medication order",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMedicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}/medications/active": {
            "get": {
                "tags": ["Health"],
                "summary": "Medications administrable today",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/locks": {
            "post": {
                "tags": ["Locks"],
                "summary": "Request an edit lock",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AcquireLockRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "423": {"description": "Held by another user"}
                }
            }
        },
        "/api/v1/locks/{token}": {
            "delete": {
                "tags": ["Locks"],
                "summary": "Release an edit lock",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"},
                    {"name": "override", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/reviews/due": {
            "get": {
                "tags": ["Reviews"],
                "summary": "Records due for review",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "types", "in": "query", "type": "string"},
                    {"name": "include_on_track", "in": "query", "type": "boolean"},
                    {"name": "include_unscheduled", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/api-keys": {
            "post": {
                "tags": ["API Keys"],
                "summary": "Issue an integration key",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IssueAPIKeyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/api-keys/{id}": {
            "delete": {
                "tags": ["API Keys"],
                "summary": "Revoke an integration key",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/enums/{name}": {
            "get": {
                "tags": ["Enums"],
                "summary": "Enum values with display metadata",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateWithdrawalRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "integer"},
                "reason": {"type": "string"},
                "withdrawal_date": {"type": "string", "format": "date-time"},
                "last_attendance_date": {"type": "string", "format": "date-time"},
                "effective_date": {"type": "string", "format": "date-time"},
                "expiration_date": {"type": "string", "format": "date-time"},
                "destination_school": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["student_id", "reason", "withdrawal_date"]
        },
        "ChecklistUpdateRequest": {
            "type": "object",
            "properties": {
                "items": {"type": "object", "additionalProperties": {"type": "boolean"}}
            },
            "required": ["items"]
        },
        "TransitionRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["status"]
        },
        "CreateMedicationRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "integer"},
                "name": {"type": "string"},
                "dosage": {"type": "string"},
                "route": {"type": "string"},
                "frequency": {"type": "string"},
                "prescribing_doctor": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "expiration_date": {"type": "string", "format": "date-time"},
                "quantity_on_hand": {"type": "integer"},
                "parent_consent": {"type": "boolean"},
                "self_administer": {"type": "boolean"}
            },
            "required": ["student_id", "name", "dosage", "route", "frequency"]
        },
        "AcquireLockRequest": {
            "type": "object",
            "properties": {
                "resource_type": {"type": "string"},
                "resource_id": {"type": "integer"},
                "ttl_seconds": {"type": "integer"},
                "reason": {"type": "string"}
            },
            "required": ["resource_type", "resource_id"]
        },
        "IssueAPIKeyRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "scopes": {"type": "array", "items": {"type": "string"}},
                "expires_at": {"type": "string", "format": "date-time"}
            },
            "required": ["name", "scopes"]
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
