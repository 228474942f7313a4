// Package docs is generated by swaggo/swag from the handler annotations.
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
        "/health": {"get": {"tags": ["health"], "summary": "Show the status of the client core", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/auth/status": {"get": {"tags": ["auth"], "summary": "Authentication status", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/auth/token": {
            "put": {"tags": ["auth"], "summary": "Store a token", "consumes": ["application/json"], "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}, "500": {"description": "Storage write failed"}}},
            "delete": {"tags": ["auth"], "summary": "Remove the stored token", "responses": {"204": {"description": "No Content"}, "500": {"description": "Storage write failed"}}}
        },
        "/auth/otp/verify": {"post": {"tags": ["auth"], "summary": "Verify an emailed one-time code", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Code rejected"}, "502": {"description": "Bad Gateway"}}}},
        "/auth/password/reset-request": {"post": {"tags": ["auth"], "summary": "Email a password reset link", "consumes": ["application/json"], "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}}}},
        "/auth/password/reset": {"post": {"tags": ["auth"], "summary": "Set a new password", "consumes": ["application/json"], "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}, "401": {"description": "Recovery token rejected"}}}},
        "/deeplinks/resolve": {"get": {"tags": ["deeplinks"], "summary": "Resolve a deep link", "produces": ["application/json"], "parameters": [{"type": "string", "name": "url", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Unsupported prefix or malformed URL"}, "404": {"description": "No matching screen"}, "422": {"description": "Parameter coercion failed"}}}},
        "/deeplinks/callback": {"post": {"tags": ["deeplinks"], "summary": "Complete an OAuth callback", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/transactions/recent": {"get": {"tags": ["transactions"], "summary": "Recent transactions", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "No stored token"}, "502": {"description": "Backend fetch failed"}}}},
        "/transactions/monthly": {"get": {"tags": ["transactions"], "summary": "Transactions of a calendar month", "produces": ["application/json"], "parameters": [{"type": "string", "name": "month", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid month"}, "401": {"description": "No stored token"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8787",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Granite Client Core API",
	Description:      "Token lifecycle, deep-link resolution and transaction queries for the Granite app.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
