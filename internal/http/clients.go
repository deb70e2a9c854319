package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vivesbank/internal/dto"
	"vivesbank/internal/mapper"
	"vivesbank/internal/repository"
	"vivesbank/internal/service"
)

// POST /v1/clients
func (s *Server) createClient(c *gin.Context) {
	var req dto.ClientRequest
	if !bindValid(c, s.schemas.client, &req) {
		return
	}
	client, err := s.Clients.Create(c.Request.Context(), currentUser(c).ID, service.CreateClientInput{
		DNI:     req.DNI,
		Name:    req.Name,
		Surname: req.Surname,
		Address: *mapper.AddressFromDto(&req.Address),
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.ClientToResponse(client))
}

// GET /v1/clients/me
func (s *Server) myClient(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	c.JSON(200, mapper.ClientToResponse(client))
}

// PUT /v1/clients/me
func (s *Server) updateMyClient(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	var req dto.ClientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := s.Clients.Update(c.Request.Context(), client.ID, service.UpdateClientInput{
		Name:    req.Name,
		Surname: req.Surname,
		Address: mapper.AddressFromDto(req.Address),
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ClientToResponse(updated))
}

// DELETE /v1/clients/me
func (s *Server) deleteMyClient(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	if err := s.Clients.Delete(c.Request.Context(), client.ID); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /v1/clients/me/dni-photo
func (s *Server) uploadDNIPhoto(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	path, ok := s.saveUpload(c, "dni", client.DNI)
	if !ok {
		return
	}
	updated, err := s.Clients.SetDNIPhoto(c.Request.Context(), client.ID, path)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ClientToResponse(updated))
}

// GET /v1/admin/clients?name=&surname=&city=&province=&page=&size=
func (s *Server) listClients(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}
	res, err := s.Clients.List(c.Request.Context(), repository.ClientFilter{
		Name:     c.Query("name"),
		Surname:  c.Query("surname"),
		City:     c.Query("city"),
		Province: c.Query("province"),
	}, page)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ToPage(&res, mapper.ClientToResponse))
}

// GET /v1/admin/clients/:id
func (s *Server) getClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	client, err := s.Clients.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ClientToResponse(client))
}

// GET /v1/admin/clients/dni/:dni
func (s *Server) getClientByDNI(c *gin.Context) {
	client, err := s.Clients.GetByDNI(c.Request.Context(), c.Param("dni"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ClientToResponse(client))
}

// DELETE /v1/admin/clients/:id
func (s *Server) deleteClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.Clients.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
