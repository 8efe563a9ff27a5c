package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniVisa API",
        "description": "Visa compliance risk engine for F-1 and J-1 students and their DSOs",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Students", "description": "Student visa profiles"},
        {"name": "Risk", "description": "Risk scoring, alerts and reports"},
        {"name": "Advisor", "description": "Policy-grounded advisor chat"},
        {"name": "CPT", "description": "Curricular Practical Training requests"},
        {"name": "DSO", "description": "Designated School Official dashboard"},
        {"name": "Exports", "description": "Asynchronous cohort and student exports"},
        {"name": "Auth", "description": "DSO authentication"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in as a DSO",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Access token issued", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current DSO",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserInfo"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/student/profile": {
            "post": {
                "tags": ["Students"],
                "summary": "Create a student profile",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StudentProfile"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/StudentProfile"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Student already exists"}
                }
            }
        },
        "/student/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student profile",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentProfile"}},
                    "404": {"description": "Student not found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Replace a student profile",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StudentProfile"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentProfile"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/student/{id}/risk": {
            "get": {
                "tags": ["Risk"],
                "summary": "Calculate the student's risk report",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "query", "name": "date", "type": "string", "format": "date", "description": "Reference date, defaults to today"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RiskReport"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/student/{id}/alerts": {
            "get": {
                "tags": ["Risk"],
                "summary": "Deadline alerts ordered by urgency",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "query", "name": "date", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Alert"}}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/student/{id}/report.pdf": {
            "get": {
                "tags": ["Risk"],
                "summary": "Download the student's risk report as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "query", "name": "date", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "PDF document"},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/chat": {
            "post": {
                "tags": ["Advisor"],
                "summary": "Ask the policy advisor",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ChatResponse"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/cpt/student/{id}/requests": {
            "get": {
                "tags": ["CPT"],
                "summary": "List a student's CPT requests",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/CPTRequest"}}}
                }
            },
            "post": {
                "tags": ["CPT"],
                "summary": "Open a CPT request",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCPTRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/CPTRequest"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/cpt/student/{id}/requests/{rid}": {
            "patch": {
                "tags": ["CPT"],
                "summary": "Move a CPT request to a new status",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "path", "name": "rid", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCPTRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CPTRequest"}},
                    "409": {"description": "Invalid transition"}
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export with its signed token",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "token", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Export file"},
                    "403": {"description": "Invalid or expired token"},
                    "404": {"description": "Export not found"}
                }
            }
        },
        "/dso/cohort": {
            "get": {
                "tags": ["DSO"],
                "summary": "Risk-ranked cohort",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "date", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/CohortRow"}}},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/dso/students": {
            "get": {
                "tags": ["DSO"],
                "summary": "Search student profiles",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/StudentProfile"}}}
                }
            }
        },
        "/dso/cpt/requests": {
            "get": {
                "tags": ["DSO"],
                "summary": "All CPT requests with student names",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/CPTRequest"}}}
                }
            }
        },
        "/dso/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ExportJob"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/dso/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ExportJob"}},
                    "404": {"description": "Export not found"}
                }
            }
        },
        "/dso/documents": {
            "post": {
                "tags": ["Advisor"],
                "summary": "Queue a policy document for embedding",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/PolicyDocument"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/IngestAccepted"}},
                    "503": {"description": "Retrieval not configured"}
                }
            }
        },
        "/dso/metrics": {
            "get": {
                "tags": ["DSO"],
                "summary": "Operational metrics snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "StudentProfile": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "full_name": {"type": "string"},
                "university": {"type": "string"},
                "country_of_origin": {"type": "string"},
                "visa_type": {"type": "string", "enum": ["F1", "J1"]},
                "program_start_date": {"type": "string", "format": "date"},
                "program_end_date": {"type": "string", "format": "date"},
                "enrollment_status": {"type": "string", "enum": ["full_time", "part_time", "on_leave"]},
                "weekly_work_hours": {"type": "number"},
                "on_opt": {"type": "boolean"},
                "on_cpt": {"type": "boolean"},
                "opt_start_date": {"type": "string", "format": "date"},
                "opt_end_date": {"type": "string", "format": "date"},
                "cpt_start_date": {"type": "string", "format": "date"},
                "cpt_end_date": {"type": "string", "format": "date"},
                "traveling_soon": {"type": "boolean"},
                "changing_employer": {"type": "boolean"},
                "changing_courses": {"type": "boolean"}
            }
        },
        "RiskFlag": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "severity": {"type": "string", "enum": ["high", "medium", "low"]},
                "explanation": {"type": "string"},
                "days_until_critical": {"type": "integer"},
                "reddit_insight": {"type": "string"}
            }
        },
        "Alert": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["deadline", "warning", "info"]},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "severity": {"type": "string", "enum": ["high", "medium", "low"]},
                "urgency": {"type": "integer"},
                "days_until_critical": {"type": "integer"}
            }
        },
        "RiskReport": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "risk_score": {"type": "integer", "minimum": 0, "maximum": 100},
                "risk_level": {"type": "string", "enum": ["high", "medium", "low"]},
                "flags": {"type": "array", "items": {"$ref": "#/definitions/RiskFlag"}},
                "alerts": {"type": "array", "items": {"$ref": "#/definitions/Alert"}},
                "generated_at": {"type": "string"}
            }
        },
        "CohortRow": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "full_name": {"type": "string"},
                "country_of_origin": {"type": "string"},
                "visa_type": {"type": "string"},
                "program_end_date": {"type": "string", "format": "date"},
                "risk_score": {"type": "integer"},
                "risk_level": {"type": "string"},
                "top_risk_flag": {"type": "string"},
                "flags": {"type": "array", "items": {"$ref": "#/definitions/RiskFlag"}}
            }
        },
        "ChatRequest": {
            "type": "object",
            "required": ["question"],
            "properties": {
                "student_id": {"type": "string"},
                "question": {"type": "string"}
            }
        },
        "ChatResponse": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "sources": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateCPTRequest": {
            "type": "object",
            "required": ["company_name", "role"],
            "properties": {
                "company_name": {"type": "string"},
                "role": {"type": "string"},
                "expected_start_date": {"type": "string", "format": "date"},
                "expected_end_date": {"type": "string", "format": "date"},
                "notes": {"type": "string"}
            }
        },
        "UpdateCPTRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["intent", "offer_signed", "approved", "rejected"]}
            }
        },
        "CPTRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "company_name": {"type": "string"},
                "role": {"type": "string"},
                "expected_start_date": {"type": "string", "format": "date"},
                "expected_end_date": {"type": "string", "format": "date"},
                "notes": {"type": "string"},
                "status": {"type": "string"},
                "signed_offer_uploaded_at": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["type", "format"],
            "properties": {
                "type": {"type": "string", "enum": ["cohort", "student_risk"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "student_id": {"type": "string"},
                "as_of": {"type": "string", "format": "date"}
            }
        },
        "ExportJob": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "status": {"type": "string", "enum": ["QUEUED", "PROCESSING", "FINISHED", "FAILED"]},
                "progress": {"type": "integer"},
                "result_url": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "PolicyDocument": {
            "type": "object",
            "required": ["source", "text"],
            "properties": {
                "source": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "IngestAccepted": {
            "type": "object",
            "properties": {
                "job_id": {"type": "string"},
                "source": {"type": "string"},
                "chunks": {"type": "integer"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "UserInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "AuthResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user": {"$ref": "#/definitions/UserInfo"},
                "issued_at": {"type": "string", "format": "date-time"}
            }
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
