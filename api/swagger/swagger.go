package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Homework Tracker API",
        "description": "Homework tracking with subscriber reminders",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Homeworks", "description": "Homework records"},
        {"name": "Subscribers", "description": "Notification subscriptions and opt-outs"},
        {"name": "Emails", "description": "Stored email addresses"},
        {"name": "Reminders", "description": "On-demand reminder and expiry runs"}
    ],
    "paths": {
        "/homeworks": {
            "get": {
                "tags": ["Homeworks"],
                "summary": "List homeworks",
                "parameters": [
                    {"name": "active", "in": "query", "type": "boolean", "description": "Only homeworks due in the future"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Homeworks"],
                "summary": "Create a homework and notify subscribers",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateHomeworkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/homeworks/{id}": {
            "get": {
                "tags": ["Homeworks"],
                "summary": "Get a homework",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Homeworks"],
                "summary": "Delete a homework",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/homeworks/{id}/remind": {
            "post": {
                "tags": ["Reminders"],
                "summary": "Send a reminder for one homework now",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReminderRunEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reminders/run": {
            "post": {
                "tags": ["Reminders"],
                "summary": "Send reminders for every active homework now",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReminderRunEnvelope"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/ReminderRunEnvelope"}}
                }
            }
        },
        "/sweeper/run": {
            "post": {
                "tags": ["Reminders"],
                "summary": "Delete expired homeworks now",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subscribers": {
            "get": {
                "tags": ["Subscribers"],
                "summary": "List subscribers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subscribers"],
                "summary": "Subscribe an email address",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubscriberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already subscribed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subscribers/{id}": {
            "delete": {
                "tags": ["Subscribers"],
                "summary": "Remove a subscriber",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subscribers/{id}/unsubscribe": {
            "post": {
                "tags": ["Subscribers"],
                "summary": "Opt a subscriber out of one homework",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UnsubscribeRequest"}}
                ],
                "responses": {
                    "204": {"description": "Unsubscribed"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/emails": {
            "get": {
                "tags": ["Emails"],
                "summary": "List stored email addresses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Emails"],
                "summary": "Store an email address",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEmailRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateHomeworkRequest": {
            "type": "object",
            "required": ["title", "subject", "dueDate"],
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "subject": {"type": "string", "maxLength": 100},
                "description": {"type": "string", "description": "Markdown"},
                "dueDate": {"type": "string", "format": "date-time"},
                "priority": {"type": "string", "enum": ["low", "medium", "high"]}
            }
        },
        "CreateSubscriberRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string", "format": "email"}
            }
        },
        "UnsubscribeRequest": {
            "type": "object",
            "required": ["homeworkId"],
            "properties": {
                "homeworkId": {"type": "string"}
            }
        },
        "CreateEmailRequest": {
            "type": "object",
            "required": ["address"],
            "properties": {
                "address": {"type": "string", "format": "email"}
            }
        },
        "DeliveryFailure": {
            "type": "object",
            "properties": {
                "homeworkId": {"type": "string"},
                "recipient": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "SkippedHomework": {
            "type": "object",
            "properties": {
                "homeworkId": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "ReminderRunResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "notificationsSent": {"type": "integer"},
                "attempted": {"type": "integer"},
                "failed": {"type": "integer"},
                "failures": {"type": "array", "items": {"$ref": "#/definitions/DeliveryFailure"}},
                "skipped": {"type": "array", "items": {"$ref": "#/definitions/SkippedHomework"}}
            }
        },
        "ReminderRunEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ReminderRunResponse"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
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
