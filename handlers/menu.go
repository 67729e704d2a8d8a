package handlers

import (
	"net/http"

	"tableorder/services/menu"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	Catalog menu.Catalog
}

func NewMenuHandler(catalog menu.Catalog) *MenuHandler {
	return &MenuHandler{Catalog: catalog}
}

func (h *MenuHandler) GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.Catalog.ListItems()})
}
