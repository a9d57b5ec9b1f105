package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Swim School Site API",
        "description": "Course catalog, enrollment wizard and staff inquiry log",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Catalog", "description": "Courses, schedule and label resolution"},
        {"name": "Wizard", "description": "Five-step enrollment form"},
        {"name": "Admin", "description": "Staff login and inquiry log"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Weekly schedule with availability and booking labels",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/resolve": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Resolve a course label",
                "parameters": [
                    {"name": "label", "in": "query", "type": "string"},
                    {"name": "hint", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizards": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Open a wizard",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/OpenWizardRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizards/{id}": {
            "get": {
                "tags": ["Wizard"],
                "summary": "Get wizard",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Wizard"],
                "summary": "Edit form fields",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FormPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Submitting or submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Wizard"],
                "summary": "Close wizard",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/wizards/{id}/next": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Validate and advance",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Step invalid, data holds the view with errors", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizards/{id}/back": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Previous step",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Already on the first step", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizards/{id}/jump": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Jump to a step",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JumpRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Step invalid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizards/{id}/course": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Change course and reset the form",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenWizardRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizards/{id}/submit": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Deliver the form",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already submitting", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Not on the review step", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Email delivery failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Admin"],
                "summary": "Staff login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/inquiries": {
            "get": {
                "tags": ["Admin"],
                "summary": "List inquiries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["enrollment", "question"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Inquiry log disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/inquiries/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export inquiries",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["enrollment", "question"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "SessionRef": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "index": {"type": "integer"}
            },
            "required": ["day"]
        },
        "OpenWizardRequest": {
            "type": "object",
            "properties": {
                "sessionRef": {"$ref": "#/definitions/SessionRef"},
                "label": {"type": "string"},
                "hint": {"type": "string"},
                "inquiryType": {"type": "string", "enum": ["enrollment", "question"]}
            }
        },
        "FormPatch": {
            "type": "object",
            "properties": {
                "guardian_first_name": {"type": "string"},
                "guardian_last_name": {"type": "string"},
                "child_first_name": {"type": "string"},
                "child_birth_date": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "postal_city": {"type": "string"},
                "heard_about_us": {"type": "string"},
                "inquiry_type": {"type": "string", "enum": ["enrollment", "question"]},
                "terms_accepted": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "JumpRequest": {
            "type": "object",
            "properties": {
                "step": {"type": "integer", "minimum": 1, "maximum": 5}
            },
            "required": ["step"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
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
