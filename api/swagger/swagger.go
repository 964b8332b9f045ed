package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Studio Scheduler API",
        "description": "Weekly class scheduling engine for fitness studios",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedule", "description": "Weekly schedule store and engines"},
        {"name": "Teachers", "description": "Read-only teacher roster"}
    ],
    "paths": {
        "/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Current schedule",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Empty the schedule",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/schedule/summary": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Schedule summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/seed": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Seed schedule from the priority catalog",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/SeedScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run in progress"},
                    "422": {"description": "Empty result"}
                }
            }
        },
        "/schedule/optimize": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Rebuild schedule under the iteration's objective",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/OptimizeScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run in progress"},
                    "422": {"description": "Empty result"}
                }
            }
        },
        "/schedule/fill-gaps": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Append a bounded batch of additive placements",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/FillGapsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run in progress"}
                }
            }
        },
        "/schedule/validate": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Validate a candidate against the hour policy",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateClassRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/classes": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Manually place one class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassInstanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict or policy violation"}
                }
            }
        },
        "/schedule/classes/{id}": {
            "put": {
                "tags": ["Schedule"],
                "summary": "Replace one class wholesale",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassInstanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Remove one class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"},
                    "409": {"description": "Locked"}
                }
            }
        },
        "/schedule/undo": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Step back one committed state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/redo": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Step forward one committed state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/locks": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Current lock set",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedule"],
                "summary": "Lock instances or teachers against engine rewrites",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Release instance or teacher locks",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SeedScheduleRequest": {
            "type": "object",
            "properties": {
                "weekStart": {"type": "string", "example": "2026-09-07"}
            }
        },
        "OptimizeScheduleRequest": {
            "type": "object",
            "properties": {
                "iteration": {"type": "integer"},
                "targetHours": {"type": "number"},
                "mustIncludeFormats": {"type": "array", "items": {"type": "string"}},
                "priorityFormats": {"type": "array", "items": {"type": "string"}},
                "prioritizeTopPerformers": {"type": "boolean"},
                "balanceClassMix": {"type": "boolean"},
                "respectTimeRestrictions": {"type": "boolean"},
                "minimizeTrainersPerShift": {"type": "boolean"},
                "weekStart": {"type": "string"}
            }
        },
        "FillGapsRequest": {
            "type": "object",
            "properties": {
                "batchSize": {"type": "integer"},
                "weekStart": {"type": "string"}
            }
        },
        "ClassInstanceRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "time": {"type": "string"},
                "location": {"type": "string"},
                "classFormat": {"type": "string"},
                "teacherName": {"type": "string"},
                "durationHours": {"type": "number"},
                "participants": {"type": "integer"},
                "revenue": {"type": "number"},
                "isPrivate": {"type": "boolean"},
                "override": {"type": "boolean"}
            },
            "required": ["day", "time", "location", "classFormat", "teacherName"]
        },
        "ValidateClassRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "time": {"type": "string"},
                "location": {"type": "string"},
                "classFormat": {"type": "string"},
                "teacherName": {"type": "string"},
                "durationHours": {"type": "number"},
                "isPrivate": {"type": "boolean"}
            },
            "required": ["day", "time", "location", "classFormat", "teacherName"]
        },
        "LockRequest": {
            "type": "object",
            "properties": {
                "instanceIds": {"type": "array", "items": {"type": "string"}},
                "teacherNames": {"type": "array", "items": {"type": "string"}}
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
