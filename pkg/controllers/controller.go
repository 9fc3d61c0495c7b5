// Package controllers holds the HTTP handlers. They read from the store
// snapshot and send every mutation through the store.
package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/duplicates"
	"github.com/kresus/backend/pkg/httputil"
	"github.com/kresus/backend/pkg/store"
	"gorm.io/gorm"
)

// FetcherStatus reports on the installation of the fetch source and
// updates its bank modules.
type FetcherStatus interface {
	Installed(ctx context.Context) bool
	Version(ctx context.Context) string
	Update(ctx context.Context) error
}

type Controller struct {
	Store      *store.Store
	DB         *gorm.DB
	Fetcher    FetcherStatus // Optional
	Duplicates duplicates.Options
}

// RegisterRoutes registers all v1 routes with the group.
func (co Controller) RegisterRoutes(v1 *gin.RouterGroup) {
	co.RegisterOperationRoutes(v1.Group("/operations"))
	co.RegisterDuplicateRoutes(v1.Group("/duplicates"))
	co.RegisterAccountRoutes(v1.Group("/accounts"))
	co.RegisterAccessRoutes(v1.Group("/accesses"))
	co.RegisterAlertRoutes(v1.Group("/alerts"))
	co.RegisterCategoryRoutes(v1.Group("/categories"))
	co.RegisterBankRoutes(v1.Group("/banks"))
	co.RegisterFetcherRoutes(v1.Group("/fetcher"))
}

func baseURL(c *gin.Context) string {
	return c.GetString(string(httputil.ContextURL))
}
