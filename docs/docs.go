// Package docs: Swagger 2.0 для /swagger/, собран по аннотациям хендлеров.
// swag init -g cmd/main.go перезаписывает этот файл.
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
        "/api/content": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Список статей",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Лимит (по умолч. 20, макс. 100)",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Смещение",
                        "name": "offset",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/models.Article"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "description": "Создаёт статью из видео или статьи Medium и ставит задачу генерации",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Создать статью",
                "parameters": [
                    {
                        "description": "Источник",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.CreateArticleRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/models.Article"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/upload-image": {
            "post": {
                "description": "Сохраняет картинку локально; при публикации она переносится в CMS",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Загрузить картинку для статьи",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Картинка до 5MB",
                        "name": "image",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/handlers.UploadImageResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Статья с публикациями",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/models.ArticleDetails"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Изменить статью",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Изменения",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.UpdateArticleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/models.Article"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Удалить статью",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/{id}/activity": {
            "get": {
                "description": "Последние записи логов с article_id статьи (генерация, публикации, снятия) в хронологическом порядке.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "История статьи",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "CSV уровней: debug,info,warn,error",
                        "name": "level",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Лимит (по умолч. 200, макс. 1000)",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/{id}/share-url": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Ссылки для шаринга статьи",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/models.ShareLinks"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/{id}/reprocess": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Повторная генерация",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/models.Article"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/{id}/translate": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "content"
                ],
                "summary": "Перевести статью на английский",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/models.Article"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/{id}/publish": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "publications"
                ],
                "summary": "Опубликовать на площадке",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Цель",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.PublishRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/models.PublishResult"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/{id}/publish-all": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "publications"
                ],
                "summary": "Опубликовать на всех автоматических площадках",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Цели",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.PublishAllRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/models.PublishOutcome"
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
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/{id}/unpublish": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "publications"
                ],
                "summary": "Снять публикацию",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Цель",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.PublishRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/content/{id}/unpublish-all": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "publications"
                ],
                "summary": "Снять все публикации статьи",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID статьи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        },
        "/api/platforms": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "publications"
                ],
                "summary": "Доступные площадки",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/helpers.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/models.PlatformDescriptor"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/rss": {
            "get": {
                "produces": [
                    "application/rss+xml"
                ],
                "tags": [
                    "feed"
                ],
                "summary": "RSS-лента",
                "responses": {
                    "200": {
                        "description": "RSS 2.0",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/helpers.Response"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "helpers.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {
                    "type": "string"
                }
            }
        },
        "handlers.UploadImageResponse": {
            "type": "object",
            "properties": {
                "url": {
                    "type": "string",
                    "example": "http://localhost:8080/uploads/1700000000000-3f2a9c1b.png"
                }
            }
        },
        "models.Article": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "slug": {
                    "type": "string"
                },
                "sourceUrl": {
                    "type": "string"
                },
                "rawTranscript": {
                    "type": "string"
                },
                "markdownContent": {
                    "type": "string"
                },
                "linkedinTeaser": {
                    "type": "string"
                },
                "xingSummary": {
                    "type": "string"
                },
                "seoTitle": {
                    "type": "string"
                },
                "seoDescription": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "ogImageUrl": {
                    "type": "string"
                },
                "titleEn": {
                    "type": "string"
                },
                "markdownContentEn": {
                    "type": "string"
                },
                "linkedinTeaserEn": {
                    "type": "string"
                },
                "xingSummaryEn": {
                    "type": "string"
                },
                "seoTitleEn": {
                    "type": "string"
                },
                "seoDescriptionEn": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "scheduledAt": {
                    "type": "string"
                }
            }
        },
        "models.Publication": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "articleId": {
                    "type": "string"
                },
                "platform": {
                    "type": "string"
                },
                "language": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "platformId": {
                    "type": "string"
                },
                "errorMessage": {
                    "type": "string"
                },
                "publishedAt": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "models.PlatformDescriptor": {
            "type": "object",
            "properties": {
                "platform": {
                    "type": "string",
                    "example": "LINKEDIN"
                },
                "name": {
                    "type": "string"
                },
                "couldAutoPublish": {
                    "type": "boolean"
                }
            }
        },
        "models.ArticleDetails": {
            "type": "object",
            "properties": {
                "publications": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Publication"
                    }
                },
                "availablePlatforms": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.PlatformDescriptor"
                    }
                }
            }
        },
        "models.ShareLinks": {
            "type": "object",
            "properties": {
                "url": {
                    "type": "string"
                },
                "linkedin": {
                    "type": "string"
                },
                "xing": {
                    "type": "string"
                }
            }
        },
        "models.CreateArticleRequest": {
            "type": "object",
            "required": [
                "type",
                "url"
            ],
            "properties": {
                "url": {
                    "type": "string",
                    "example": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "YOUTUBE",
                        "MEDIUM"
                    ],
                    "example": "YOUTUBE"
                },
                "title": {
                    "type": "string",
                    "maxLength": 255,
                    "example": "Go im Backend"
                }
            }
        },
        "models.UpdateArticleRequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "slug": {
                    "type": "string"
                },
                "markdownContent": {
                    "type": "string"
                },
                "linkedinTeaser": {
                    "type": "string"
                },
                "xingSummary": {
                    "type": "string"
                },
                "seoTitle": {
                    "type": "string"
                },
                "seoDescription": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "ogImageUrl": {
                    "type": "string"
                },
                "titleEn": {
                    "type": "string"
                },
                "markdownContentEn": {
                    "type": "string"
                },
                "linkedinTeaserEn": {
                    "type": "string"
                },
                "xingSummaryEn": {
                    "type": "string"
                },
                "seoTitleEn": {
                    "type": "string"
                },
                "seoDescriptionEn": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "SCHEDULED",
                        "DRAFT",
                        "PUBLISHED"
                    ]
                },
                "scheduledAt": {
                    "type": "string",
                    "example": "2026-01-02T09:00:00Z"
                }
            }
        },
        "models.PublishRequest": {
            "type": "object",
            "required": [
                "platform"
            ],
            "properties": {
                "platform": {
                    "type": "string",
                    "example": "LINKEDIN"
                },
                "language": {
                    "type": "string",
                    "example": "DE"
                },
                "accessToken": {
                    "type": "string"
                }
            }
        },
        "models.PublishTarget": {
            "type": "object",
            "required": [
                "platform"
            ],
            "properties": {
                "platform": {
                    "type": "string"
                },
                "language": {
                    "type": "string"
                },
                "accessToken": {
                    "type": "string"
                }
            }
        },
        "models.PublishAllRequest": {
            "type": "object",
            "required": [
                "targets"
            ],
            "properties": {
                "targets": {
                    "type": "array",
                    "minItems": 1,
                    "items": {
                        "$ref": "#/definitions/models.PublishTarget"
                    }
                }
            }
        },
        "models.PublishResult": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "platformId": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "models.PublishOutcome": {
            "type": "object",
            "properties": {
                "platform": {
                    "type": "string"
                },
                "language": {
                    "type": "string"
                },
                "skipped": {
                    "type": "boolean"
                },
                "result": {
                    "$ref": "#/definitions/models.PublishResult"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Content Orchestrator API",
	Description:      "Генерация статей из видео и статей Medium, публикация на LinkedIn, Medium, XING, RSS и сайт.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
