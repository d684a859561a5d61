package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Horario Admin API",
        "description": "Manual timetable assignment: candidate filtering, shift validation and gated commits.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Assignments", "description": "Eligibility, shift checks and the assignment dialog"},
        {"name": "Timetables", "description": "Weekly timetable downloads"}
    ],
    "paths": {
        "/assignments/candidates": {
            "post": {
                "tags": ["Assignments"],
                "summary": "List eligible teachers and rooms for a subject in a block",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CandidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/shift-check": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Check a block against a group's preferred shift",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ShiftCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK; an unknown block or group is reported as ok", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/candidates/cache": {
            "delete": {
                "tags": ["Assignments"],
                "summary": "Drop every memoized candidate list",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/assignment-sessions": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Open an assignment dialog",
                "description": "Every dialog starts with an empty selection.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignment-sessions/{id}": {
            "delete": {
                "tags": ["Assignments"],
                "summary": "Discard an assignment dialog",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/assignment-sessions/{id}/candidates": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Refresh candidates for an open dialog",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignment-sessions/{id}/selection": {
            "patch": {
                "tags": ["Assignments"],
                "summary": "Update the dialog selection",
                "description": "Omitted fields are left untouched; zero clears a side.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Not an eligible candidate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignment-sessions/{id}/commit": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Save the selected teacher and room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Booked concurrently", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Period or group missing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Incomplete selection or shift conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Download a weekly timetable",
                "description": "Exactly one of group_id, teacher_id or room_id selects the timetable. Teachers may only export their own.",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "period_id", "in": "query", "required": true, "type": "integer"},
                    {"name": "group_id", "in": "query", "type": "integer"},
                    {"name": "teacher_id", "in": "query", "type": "integer"},
                    {"name": "room_id", "in": "query", "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "Period not found or exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CandidateRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "integer"},
                "block_id": {"type": "integer"},
                "period_id": {"type": "integer"}
            }
        },
        "ShiftCheckRequest": {
            "type": "object",
            "required": ["block_id", "group_id"],
            "properties": {
                "block_id": {"type": "integer"},
                "group_id": {"type": "integer"}
            }
        },
        "OpenAssignmentRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "integer"},
                "block_id": {"type": "integer"},
                "period_id": {"type": "integer"},
                "group_id": {"type": "integer"}
            }
        },
        "SelectionRequest": {
            "type": "object",
            "properties": {
                "teacher_id": {"type": "integer"},
                "room_id": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
