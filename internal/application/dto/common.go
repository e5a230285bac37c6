package dto

import "strings"

// Valores por defecto de paginación.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PaginationOptions opciones crudas recibidas por query string.
type PaginationOptions struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
}

// Pagination opciones normalizadas con Skip calculado.
type Pagination struct {
	Page      int
	Limit     int
	Skip      int
	SortBy    string
	SortOrder string
}

// CalculatePagination aplica valores por defecto y calcula Skip = (Page-1)*Limit.
// Sin sortBy el orden es createdAt desc.
func CalculatePagination(o PaginationOptions) Pagination {
	p := Pagination{Page: o.Page, Limit: o.Limit, SortBy: o.SortBy, SortOrder: strings.ToLower(o.SortOrder)}
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	p.Skip = (p.Page - 1) * p.Limit
	if p.SortBy == "" {
		p.SortBy = "createdAt"
		if p.SortOrder == "" {
			p.SortOrder = "desc"
		}
	}
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		p.SortOrder = "desc"
	}
	return p
}

// Meta metadatos de página en respuestas de listado.
type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
