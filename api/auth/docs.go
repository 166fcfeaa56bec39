// Package auth registers the Swagger document for the authentication service.
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "AussieBroadWAN Team",
			"url": "https://github.com/aussiebroadwan/pantry"
		},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/auth/register": {
			"post": {
				"description": "Creates an account and returns the user with its first token pair.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Register a new account",
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/authsdk.Envelope"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/authsdk.AuthResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "MISSING_FIELDS, INVALID_EMAIL, WEAK_PASSWORD, INVALID_NAME, INVALID_JSON",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					},
					"409": {
						"description": "EMAIL_EXISTS",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					},
					"500": {
						"description": "INTERNAL_ERROR",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					}
				},
				"parameters": [
					{
						"description": "email, password, fullName",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.RegisterRequest"
						}
					}
				]
			}
		},
		"/auth/login": {
			"post": {
				"description": "Exchanges email and password for a token pair.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Log in",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/authsdk.Envelope"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/authsdk.AuthResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "MISSING_CREDENTIALS, INVALID_JSON",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					},
					"401": {
						"description": "INVALID_CREDENTIALS",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					},
					"403": {
						"description": "ACCOUNT_INACTIVE",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					},
					"423": {
						"description": "ACCOUNT_LOCKED, details.lockedUntil",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					}
				},
				"parameters": [
					{
						"description": "email, password",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.LoginRequest"
						}
					}
				]
			}
		},
		"/auth/refresh": {
			"post": {
				"description": "Exchanges a refresh token for a new access token and, with rotation enabled, a replacement refresh token.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Refresh tokens",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/authsdk.Envelope"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/authsdk.RefreshResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "MISSING_REFRESH_TOKEN, INVALID_JSON",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					},
					"401": {
						"description": "TOKEN_EXPIRED, TOKEN_REVOKED, INVALID_TOKEN, USER_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					},
					"403": {
						"description": "ACCOUNT_INACTIVE",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					}
				},
				"parameters": [
					{
						"description": "refreshToken",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/authsdk.RefreshRequest"
						}
					}
				]
			}
		},
		"/auth/logout": {
			"post": {
				"description": "Blacklists the bearer access token and revokes the refresh token when one is given. Idempotent.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Log out",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					},
					"401": {
						"description": "NO_TOKEN",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"description": "refreshToken",
						"name": "request",
						"in": "body",
						"required": false,
						"schema": {
							"$ref": "#/definitions/authsdk.LogoutRequest"
						}
					}
				]
			}
		},
		"/auth/logout-all": {
			"post": {
				"description": "Revokes every refresh token of the caller and blacklists the access token used for the call.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Log out everywhere",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/authsdk.Envelope"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/authsdk.LogoutAllResponse"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "AUTH_REQUIRED, TOKEN_EXPIRED, TOKEN_REVOKED, INVALID_TOKEN",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/me": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Returns the account behind the bearer access token.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Auth"
				],
				"summary": "Current user",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/authsdk.Envelope"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/authsdk.MeResponse"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "AUTH_REQUIRED, TOKEN_EXPIRED, TOKEN_REVOKED, INVALID_TOKEN, USER_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					},
					"403": {
						"description": "ACCOUNT_INACTIVE",
						"schema": {
							"$ref": "#/definitions/authsdk.Envelope"
						}
					}
				}
			}
		},
		"/livez": {
			"get": {
				"description": "Liveness probe returning status, uptime and version.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Health"
				],
				"summary": "Health Check Endpoint",
				"responses": {
					"200": {
						"description": "status, uptime, version",
						"schema": {
							"$ref": "#/definitions/authsdk.HealthResponse"
						}
					}
				}
			}
		},
		"/readyz": {
			"get": {
				"description": "Readiness probe reporting the database and blacklist cache.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Health"
				],
				"summary": "Readiness Check Endpoint",
				"responses": {
					"200": {
						"description": "status, uptime, version, checks",
						"schema": {
							"$ref": "#/definitions/authsdk.HealthResponse"
						}
					},
					"503": {
						"description": "service not ready",
						"schema": {
							"$ref": "#/definitions/authsdk.HealthResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"authsdk.Envelope": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"data": {},
				"message": {
					"type": "string"
				},
				"error": {
					"type": "string"
				},
				"code": {
					"type": "string"
				},
				"details": {
					"$ref": "#/definitions/authsdk.ErrorDetails"
				}
			}
		},
		"authsdk.ErrorDetails": {
			"type": "object",
			"properties": {
				"lockedUntil": {
					"type": "string"
				},
				"violations": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"authsdk.RegisterRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"fullName": {
					"type": "string"
				}
			}
		},
		"authsdk.LoginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"authsdk.RefreshRequest": {
			"type": "object",
			"properties": {
				"refreshToken": {
					"type": "string"
				}
			}
		},
		"authsdk.LogoutRequest": {
			"type": "object",
			"properties": {
				"refreshToken": {
					"type": "string"
				}
			}
		},
		"authsdk.User": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"fullName": {
					"type": "string"
				},
				"isVerified": {
					"type": "boolean"
				},
				"isActive": {
					"type": "boolean"
				},
				"lastLogin": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				}
			}
		},
		"authsdk.UserSummary": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"fullName": {
					"type": "string"
				}
			}
		},
		"authsdk.Tokens": {
			"type": "object",
			"properties": {
				"accessToken": {
					"type": "string"
				},
				"refreshToken": {
					"type": "string"
				},
				"expiresIn": {
					"type": "integer"
				},
				"tokenType": {
					"type": "string"
				}
			}
		},
		"authsdk.AuthResponse": {
			"type": "object",
			"properties": {
				"user": {
					"$ref": "#/definitions/authsdk.User"
				},
				"tokens": {
					"$ref": "#/definitions/authsdk.Tokens"
				}
			}
		},
		"authsdk.RefreshResponse": {
			"type": "object",
			"properties": {
				"user": {
					"$ref": "#/definitions/authsdk.UserSummary"
				},
				"tokens": {
					"$ref": "#/definitions/authsdk.Tokens"
				}
			}
		},
		"authsdk.MeResponse": {
			"type": "object",
			"properties": {
				"user": {
					"$ref": "#/definitions/authsdk.User"
				}
			}
		},
		"authsdk.LogoutAllResponse": {
			"type": "object",
			"properties": {
				"revokedSessions": {
					"type": "integer"
				}
			}
		},
		"authsdk.HealthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				},
				"version": {
					"type": "string"
				},
				"checks": {
					"$ref": "#/definitions/authsdk.HealthChecks"
				}
			}
		},
		"authsdk.HealthChecks": {
			"type": "object",
			"properties": {
				"database": {
					"type": "string"
				},
				"cache": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "JWT access token. Format: \"Bearer {token}\".",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Pantry Authentication Service API",
	Description:      "Account registration, login and JWT session management for Pantry.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
