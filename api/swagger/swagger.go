package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Vendor MDM API",
        "description": "Vendor master data self-service portal backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Auth", "description": "Login and token lifecycle"},
        {"name": "Vendors", "description": "Vendor master data snapshots"},
        {"name": "ChangeRequests", "description": "Vendor change request workflow"},
        {"name": "Onboarding", "description": "Prospective vendor applications"},
        {"name": "Invitations", "description": "Registration invitations"},
        {"name": "Registration", "description": "Public invited registration"},
        {"name": "SapAdmin", "description": "ERP gateway administration"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login with email and password",
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
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid or revoked token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the current refresh token",
                "responses": {
                    "204": {"description": "Logged out"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user profile from the access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/vendor/{vendorId}": {
            "get": {
                "tags": ["Vendors"],
                "summary": "Get vendor master data",
                "parameters": [
                    {"name": "vendorId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not your vendor record"},
                    "404": {"description": "Unknown vendor"}
                }
            }
        },
        "/changerequest": {
            "get": {
                "tags": ["ChangeRequests"],
                "summary": "List change requests",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "vendorId", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["ChangeRequests"],
                "summary": "Submit a change request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateChangeRequestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "No changes detected or invalid payload"}
                }
            }
        },
        "/changerequest/vendor/{vendorId}": {
            "get": {
                "tags": ["ChangeRequests"],
                "summary": "Change requests for one vendor",
                "parameters": [
                    {"name": "vendorId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Vendor scope violation"}
                }
            }
        },
        "/changerequest/worklist": {
            "get": {
                "tags": ["ChangeRequests"],
                "summary": "Change requests awaiting decision",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/changerequest/history": {
            "get": {
                "tags": ["ChangeRequests"],
                "summary": "Decided change requests",
                "parameters": [
                    {"name": "vendorId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/changerequest/history/export": {
            "get": {
                "tags": ["ChangeRequests"],
                "summary": "Export decided change requests as CSV or PDF",
                "parameters": [
                    {"name": "vendorId", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/changerequest/stats": {
            "get": {
                "tags": ["ChangeRequests"],
                "summary": "Worklist summary counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/changerequest/{id}": {
            "get": {
                "tags": ["ChangeRequests"],
                "summary": "Change request detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown request"}
                }
            }
        },
        "/changerequest/{id}/approve": {
            "post": {
                "tags": ["ChangeRequests"],
                "summary": "Approve a change request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/changerequest/{id}/reject": {
            "post": {
                "tags": ["ChangeRequests"],
                "summary": "Reject a change request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/onboarding": {
            "get": {
                "tags": ["Onboarding"],
                "summary": "List onboarding applications",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Onboarding"],
                "summary": "Submit an onboarding application",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitApplicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/vendor/onboarding/pending": {
            "get": {
                "tags": ["Onboarding"],
                "summary": "Applications awaiting review",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/onboarding/{id}": {
            "get": {
                "tags": ["Onboarding"],
                "summary": "Application detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown application"}
                }
            }
        },
        "/onboarding/{id}/approve": {
            "post": {
                "tags": ["Onboarding"],
                "summary": "Approve an application",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already decided"},
                    "412": {"description": "Sanction screening has not passed"}
                }
            }
        },
        "/onboarding/{id}/reject": {
            "post": {
                "tags": ["Onboarding"],
                "summary": "Reject an application",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/invitation/list": {
            "get": {
                "tags": ["Invitations"],
                "summary": "List invitations",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/invitation/create": {
            "post": {
                "tags": ["Invitations"],
                "summary": "Create a registration invitation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInvitationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/invitation/resend/{id}": {
            "post": {
                "tags": ["Invitations"],
                "summary": "Re-issue a pending invitation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not pending"}
                }
            }
        },
        "/invitation/revoke/{id}": {
            "post": {
                "tags": ["Invitations"],
                "summary": "Revoke a pending invitation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Revoked"},
                    "409": {"description": "Not pending"}
                }
            }
        },
        "/invitation/validate/{token}": {
            "get": {
                "tags": ["Registration"],
                "summary": "Validate a registration token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Validation result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/invitation/complete/{token}": {
            "post": {
                "tags": ["Registration"],
                "summary": "Complete an invited registration",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompleteRegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Application created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invitation already used"},
                    "410": {"description": "Invitation expired"}
                }
            }
        },
        "/admin/sap/configuration": {
            "get": {
                "tags": ["SapAdmin"],
                "summary": "Get gateway connection settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["SapAdmin"],
                "summary": "Update gateway connection settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid settings"}
                }
            }
        },
        "/admin/sap/test-connection": {
            "post": {
                "tags": ["SapAdmin"],
                "summary": "Probe the configured gateway",
                "responses": {
                    "200": {"description": "Probe result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/sap/certificate": {
            "post": {
                "tags": ["SapAdmin"],
                "summary": "Upload an SNC certificate",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "certificate", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/metrics": {
            "get": {
                "tags": ["SapAdmin"],
                "summary": "Aggregated system metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateChangeRequestRequest": {
            "type": "object",
            "required": ["sapVendorId"],
            "properties": {
                "sapVendorId": {"type": "string"},
                "profile": {"type": "object"},
                "touchedFields": {"type": "array", "items": {"type": "string"}},
                "payload": {"type": "object"},
                "attachments": {"type": "array", "items": {"type": "object"}}
            }
        },
        "DecisionRequest": {
            "type": "object",
            "properties": {
                "comment": {"type": "string"}
            }
        },
        "SubmitApplicationRequest": {
            "type": "object",
            "required": ["companyName", "taxId", "contactName", "email"],
            "properties": {
                "companyName": {"type": "string"},
                "taxId": {"type": "string"},
                "contactName": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "CreateInvitationRequest": {
            "type": "object",
            "required": ["vendorLegalName", "primaryContactEmail"],
            "properties": {
                "vendorLegalName": {"type": "string"},
                "primaryContactEmail": {"type": "string"},
                "expirationDays": {"type": "integer"},
                "notes": {"type": "string"}
            }
        },
        "CompleteRegistrationRequest": {
            "type": "object",
            "required": ["companyName", "taxId", "contactName", "email"],
            "properties": {
                "companyName": {"type": "string"},
                "taxId": {"type": "string"},
                "contactName": {"type": "string"},
                "email": {"type": "string"}
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
