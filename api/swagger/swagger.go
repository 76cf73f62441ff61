package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SIS API",
        "description": "School information system with leveled entity fetching",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Login and token lifecycle"},
        {"name": "Students", "description": "Student records"},
        {"name": "Teachers", "description": "Teacher records"},
        {"name": "Classrooms", "description": "Classroom rosters"},
        {"name": "Contacts", "description": "Contact channels"},
        {"name": "Subjects", "description": "Subjects and teaching assignments"},
        {"name": "SubjectGroups", "description": "Subject group lookup"},
        {"name": "Clubs", "description": "Student clubs"},
        {"name": "Attendance", "description": "Assembly and homeroom check-ins"},
        {"name": "Certificates", "description": "Awards and ceremony placement"},
        {"name": "Exports", "description": "Asynchronous report generation"}
    ],
    "parameters": {
        "fetchLevel": {
            "name": "fetch_level",
            "in": "query",
            "type": "string",
            "enum": ["id_only", "compact", "default", "detailed"],
            "description": "How much of the entity to materialize; defaults to id_only"
        },
        "descendantFetchLevel": {
            "name": "descendant_fetch_level",
            "in": "query",
            "type": "string",
            "enum": ["id_only", "compact", "default", "detailed"],
            "description": "Level applied to related entities; defaults to id_only"
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
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        }
    },
    "definitions": {
        "PageInfo": {
            "type": "object",
            "properties": {
                "first_page": {"type": "integer"},
                "last_page": {"type": "integer"},
                "next_page": {"type": "integer"},
                "prev_page": {"type": "integer"},
                "size": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "source": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "page_info": {"$ref": "#/definitions/PageInfo"},
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
