package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sustaina-market/storefront/internal/catalog"
)

func (a *api) listProducts(c *gin.Context) {
	products := a.catalog.List(catalog.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (a *api) getProduct(c *gin.Context) {
	p, err := a.catalog.Get(c.Param("id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *api) listDeals(c *gin.Context) {
	deals := a.catalog.Deals()
	c.JSON(http.StatusOK, gin.H{"products": deals, "count": len(deals)})
}

func (a *api) listRecipes(c *gin.Context) {
	recipes := a.catalog.Recipes()
	out := make([]gin.H, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, gin.H{
			"recipe":      r,
			"ingredients": a.catalog.RecipeIngredients(r),
		})
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}
