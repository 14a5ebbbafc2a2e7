// Package docs registers the Swagger document served under /swagger. Keep it
// in sync with the @Router annotations on the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}}}
            }
        },
        "/api/v1/diet-upload": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["diet-upload"],
                "summary": "Current upload state",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UploadStateResponse"}}}
            },
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["diet-upload"],
                "summary": "Upload a diet file",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "file", "description": "Diet workbook (.xls or .xlsx)", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Account IDs (repeated or comma-separated)", "name": "accounts", "in": "formData", "required": true},
                    {"type": "string", "description": "Period start (YYYY-MM-DD)", "name": "from", "in": "formData", "required": true},
                    {"type": "string", "description": "Period end (YYYY-MM-DD)", "name": "to", "in": "formData", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.UploadStateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/v1/diet-upload/events": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["diet-upload"],
                "summary": "Upload state stream",
                "produces": ["text/event-stream"],
                "responses": {"200": {"description": "state events", "schema": {"$ref": "#/definitions/models.UploadStateResponse"}}}
            }
        },
        "/api/v1/diet-upload/confirm": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["diet-upload"],
                "summary": "Confirm overwriting existing diets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UploadStateResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/v1/diet-upload/dismiss": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["diet-upload"],
                "summary": "Cancel a pending upload",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UploadStateResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/v1/diet-upload/retry": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["diet-upload"],
                "summary": "Retry the last upload with the same file and selection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UploadStateResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/v1/diet-upload/file": {
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["diet-upload"],
                "summary": "Clear the selected file",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UploadStateResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/v1/diet-upload/validate": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["diet-upload"],
                "summary": "Validate a diet file without saving it",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "file", "description": "Diet workbook (.xls or .xlsx)", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ValidateResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/v1/files": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["files"],
                "summary": "List diet files of an account",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "owner", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FilesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "message": {"type": "string"}}
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "backend": {"type": "string"}}
        },
        "models.Account": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "display_name": {"type": "string"}}
        },
        "models.UploadResultResponse": {
            "type": "object",
            "properties": {
                "account_id": {"type": "string"},
                "stage": {"type": "string", "enum": ["UPLOADING", "PARSING", "SAVING"]},
                "status": {"type": "string", "enum": ["SUCCESS", "ERROR", "IN_PROGRESS"]},
                "message": {"type": "string"}
            }
        },
        "models.UploadStateResponse": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["initial", "loading", "needs_confirmation", "success", "error"]},
                "message": {"type": "string"},
                "progress": {"type": "integer"},
                "stage": {"type": "string"},
                "history": {"type": "array", "items": {"$ref": "#/definitions/models.UploadResultResponse"}},
                "conflicts": {"type": "array", "items": {"$ref": "#/definitions/models.Account"}}
            }
        },
        "models.DaySummary": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "meals": {"type": "integer"}}
        },
        "models.ValidateResponse": {
            "type": "object",
            "properties": {
                "file_name": {"type": "string"},
                "mime_type": {"type": "string"},
                "days": {"type": "array", "items": {"$ref": "#/definitions/models.DaySummary"}},
                "meals": {"type": "integer"},
                "shopping_items": {"type": "integer"}
            }
        },
        "models.FileResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "file_name": {"type": "string"},
                "file_url": {"type": "string"},
                "file_type": {"type": "string"},
                "status": {"type": "string"},
                "uploaded_at": {"type": "string"}
            }
        },
        "models.FilesResponse": {
            "type": "object",
            "properties": {"files": {"type": "array", "items": {"$ref": "#/definitions/models.FileResponse"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vitema Diet Upload API",
	Description:      "Uploads diet workbooks, assigns them to client accounts and reports per-account stage progress.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
