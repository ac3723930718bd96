// Package docs is generated by swag from the handler annotations. Regenerate
// with: swag init -g cmd/server/main.go -o docs
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
        "/semesters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["semesters"],
                "summary": "List semesters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/results/evaluate": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Evaluate a result document",
                "parameters": [
                    {"type": "file", "description": "Result PDF with a text layer", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Semester id (default from configuration)", "name": "semester", "in": "formData"},
                    {"type": "boolean", "default": true, "description": "Save the SGPA to the result table", "name": "persist", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "SGPA computed", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing file, unsupported type or unknown semester", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "422": {"description": "No subject rows recognised or SGPA undefined", "schema": {"$ref": "#/definitions/handler.TerminalEvaluationBody"}}
                }
            }
        },
        "/records": {
            "get": {
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List records",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Offset for pagination", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Limit for pagination (max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/records/export": {
            "get": {
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["records"],
                "summary": "Export all records",
                "parameters": [
                    {"type": "string", "default": "csv", "description": "csv or xlsx", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/records/{usn}/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Every semester row for a USN",
                "parameters": [
                    {"type": "string", "description": "University Seat Number", "name": "usn", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "No such record", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/records/{usn}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Look up a record by USN",
                "parameters": [
                    {"type": "string", "description": "University Seat Number", "name": "usn", "in": "path", "required": true},
                    {"type": "string", "description": "Semester id", "name": "semester", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Unknown semester", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "No such record", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.PagMeta": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/handler.PagMeta"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.TerminalEvaluationBody": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "status": {"type": "string", "example": "ok"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "VTU Result Portal API",
	Description:      "Extracts subject rows from VTU result PDFs, computes the SGPA and keeps a shared result table.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
