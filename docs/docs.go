// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag/v2"

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
		"/admin/tenants": {
			"get": {
				"security": [
					{
						"CookieAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "List tenants",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/identity.Tenant"
											}
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"CookieAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Create tenant",
				"parameters": [
					{
						"description": "Tenant",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.CreateTenantRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/identity.Tenant"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/agents": {
			"get": {
				"security": [
					{
						"CookieAuth": []
					}
				],
				"description": "Agents in the caller's tenant. A superadmin may omit tenantId to list every tenant.",
				"produces": [
					"application/json"
				],
				"tags": [
					"agents"
				],
				"summary": "List agents",
				"parameters": [
					{
						"type": "string",
						"description": "Tenant ID",
						"name": "tenantId",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/agent.Agent"
											}
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"CookieAuth": []
					}
				],
				"description": "Adds an agent to the scoped tenant. A superadmin must name the tenant.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"agents"
				],
				"summary": "Create agent",
				"parameters": [
					{
						"description": "Agent",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.CreateAgentRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/agent.Agent"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/agents/{id}": {
			"delete": {
				"security": [
					{
						"CookieAuth": []
					}
				],
				"description": "The tenant comes from the tenantId query parameter; a superadmin must always supply it.",
				"produces": [
					"application/json"
				],
				"tags": [
					"agents"
				],
				"summary": "Delete agent",
				"parameters": [
					{
						"type": "string",
						"description": "Agent ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Tenant ID",
						"name": "tenantId",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/auth/login": {
			"post": {
				"description": "Exchanges credentials for an HttpOnly session cookie",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Log in",
				"parameters": [
					{
						"description": "Credentials",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.SessionResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/auth/logout": {
			"post": {
				"description": "Clears the session cookie. Succeeds with or without a session.",
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Log out",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/auth/me": {
			"get": {
				"security": [
					{
						"CookieAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Current session",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.SessionResponse"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"error": {
											"$ref": "#/definitions/dto.ErrorInfo"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/health": {
			"get": {
				"description": "Reports whether the database answers within two seconds",
				"produces": [
					"application/json"
				],
				"tags": [
					"system"
				],
				"summary": "Health check",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.HealthResponse"
										}
									}
								}
							]
						}
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.HealthResponse"
										}
									}
								}
							]
						}
					}
				}
			}
		}
	},
	"definitions": {
		"agent.Agent": {
			"type": "object",
			"properties": {
				"createdAt": {
					"type": "string"
				},
				"createdBy": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"tenantId": {
					"type": "string"
				}
			}
		},
		"dto.ErrorInfo": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"details": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.ValidationDetail"
					}
				},
				"message": {
					"type": "string"
				},
				"request_id": {
					"type": "string"
				}
			}
		},
		"dto.Response": {
			"type": "object",
			"properties": {
				"data": {},
				"error": {
					"$ref": "#/definitions/dto.ErrorInfo"
				},
				"success": {
					"type": "boolean"
				}
			}
		},
		"dto.ValidationDetail": {
			"type": "object",
			"properties": {
				"field": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"handler.CreateAgentRequest": {
			"type": "object",
			"required": [
				"name"
			],
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 120
				},
				"tenantId": {
					"type": "string"
				}
			}
		},
		"handler.CreateTenantRequest": {
			"type": "object",
			"required": [
				"id",
				"name"
			],
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string",
					"maxLength": 200
				}
			}
		},
		"handler.HealthResponse": {
			"type": "object",
			"properties": {
				"database": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				}
			}
		},
		"handler.LoginRequest": {
			"type": "object",
			"required": [
				"email",
				"password"
			],
			"properties": {
				"email": {
					"type": "string",
					"maxLength": 200
				},
				"password": {
					"type": "string",
					"maxLength": 200
				}
			}
		},
		"handler.SessionResponse": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"expiresAt": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"tenantId": {
					"type": "string"
				},
				"userId": {
					"type": "string"
				}
			}
		},
		"identity.Tenant": {
			"type": "object",
			"properties": {
				"createdAt": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"CookieAuth": {
			"description": "Session token issued by /auth/login",
			"type": "apiKey",
			"name": "auth_token",
			"in": "cookie"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "agentdesk API",
	Description:      "Multi-tenant agent management API with cookie sessions, per-bucket rate limits and an origin guard",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
