package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vivesbank/internal/dto"
	"vivesbank/internal/mapper"
	"vivesbank/internal/models"
	"vivesbank/internal/repository"
	"vivesbank/internal/service"
)

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Type:          models.ProductType(strings.ToUpper(req.Type)),
		Specification: req.Specification,
		TAE:           req.TAE,
	}
}

// GET /v1/products?type=&page=&size=
func (s *Server) listProducts(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}
	f := repository.ProductFilter{Type: models.ProductType(strings.ToUpper(c.Query("type")))}
	res, err := s.Products.List(c.Request.Context(), f, page)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ToPage(&res, mapper.ProductToResponse))
}

// GET /v1/products/:id
func (s *Server) getProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := s.Products.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ProductToResponse(p))
}

// POST /v1/admin/products
func (s *Server) createProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := s.Products.Create(c.Request.Context(), productInput(req))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.ProductToResponse(p))
}

// PUT /v1/admin/products/:id
func (s *Server) updateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := s.Products.Update(c.Request.Context(), id, productInput(req))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ProductToResponse(p))
}

// DELETE /v1/admin/products/:id
func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.Products.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
