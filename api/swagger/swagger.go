package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ModPlan API",
        "description": "Timetable combination engine and module catalogue",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Modules", "description": "Read-only module catalogue"},
        {"name": "Timetables", "description": "Combination generation and export"},
        {"name": "Audit", "description": "Engine audit trail"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
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
                    "503": {"description": "A backing store is unreachable"}
                }
            }
        },
        "/api/v1/modules": {
            "get": {
                "tags": ["Modules"],
                "summary": "List catalogue modules",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "faculty", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"},
                    {"name": "sortBy", "in": "query", "type": "string"},
                    {"name": "sortOrder", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/modules/{code}": {
            "get": {
                "tags": ["Modules"],
                "summary": "Fetch one module with its class groups",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown module", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate clash-free timetable combinations",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Ranked combinations", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Request failed validation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/export": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Export one combination as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rendered file"},
                    "400": {"description": "Invalid export payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/audit/events": {
            "get": {
                "tags": ["Audit"],
                "summary": "List recent engine audit events",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateTimetableRequest": {
            "type": "object",
            "required": ["modules", "filters", "semester"],
            "properties": {
                "modules": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ModuleSelection"}
                },
                "filters": {"$ref": "#/definitions/GenerationFilters"},
                "semester": {"type": "string"}
            }
        },
        "ModuleSelection": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "indexNumbers": {"type": "array", "items": {"type": "string"}}
            }
        },
        "GenerationFilters": {
            "type": "object",
            "properties": {
                "dayDuration": {"$ref": "#/definitions/RangeFilter"},
                "consecutiveClasses": {"$ref": "#/definitions/RangeFilter"},
                "classGap": {"$ref": "#/definitions/RangeFilter"},
                "earliestStart": {"$ref": "#/definitions/TimeBoundFilter"},
                "latestEnd": {"$ref": "#/definitions/TimeBoundFilter"},
                "daysOfWeek": {"type": "object", "additionalProperties": {"type": "boolean"}},
                "classesToConsider": {"type": "object", "additionalProperties": {"type": "boolean"}},
                "venues": {
                    "type": "object",
                    "properties": {
                        "online": {"type": "boolean"},
                        "inPerson": {"type": "boolean"}
                    }
                },
                "dailyLoadPreference": {"type": "string", "enum": ["skewed", "balanced"]},
                "goals": {
                    "type": "object",
                    "properties": {
                        "balanceWorkload": {"type": "boolean"},
                        "minimizeDays": {"type": "boolean"},
                        "consecutiveDays": {"type": "boolean"}
                    }
                }
            }
        },
        "RangeFilter": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "min": {"type": "integer"},
                "max": {"type": "integer"}
            }
        },
        "TimeBoundFilter": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "time": {"type": "string", "example": "09:00"}
            }
        },
        "ExportTimetableRequest": {
            "type": "object",
            "required": ["combination", "format"],
            "properties": {
                "combination": {"type": "object"},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "semester": {"type": "string"}
            }
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
