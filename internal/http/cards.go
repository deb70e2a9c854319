package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vivesbank/internal/dto"
	"vivesbank/internal/mapper"
	"vivesbank/internal/repository"
	"vivesbank/internal/service"
)

// POST /v1/cards
func (s *Server) createCard(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	var req dto.CardRequest
	if !bindValid(c, s.schemas.card, &req) {
		return
	}
	card, err := s.Cards.Create(c.Request.Context(), client.ID, service.CreateCardInput{
		Pin:            req.Pin,
		Number:         req.Number,
		CVV:            req.CVV,
		ExpirationDate: req.ExpirationDate,
		AccountIBAN:    req.BankAccountIBAN,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.CardToResponse(card))
}

// POST /v1/cards/:id/attach
func (s *Server) attachCard(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.CardAttachRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BankAccountIBAN == "" {
		badRequest(c, "bankAccountIban is required")
		return
	}
	card, err := s.Cards.Attach(c.Request.Context(), client.ID, req.BankAccountIBAN, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.CardToResponse(card))
}

// POST /v1/cards/:id/detach
func (s *Server) detachCard(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	card, err := s.Cards.Detach(c.Request.Context(), client.ID, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.CardToResponse(card))
}

// PATCH /v1/cards/:id/pin
func (s *Server) updateCardPin(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.CardPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	card, err := s.Cards.UpdatePin(c.Request.Context(), client.ID, id, req.Pin)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.CardToResponse(card))
}

// DELETE /v1/cards/:id
func (s *Server) deleteMyCard(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	s.removeCard(c, client.ID)
}

// DELETE /v1/admin/cards/:id
func (s *Server) deleteCard(c *gin.Context) {
	s.removeCard(c, 0)
}

func (s *Server) removeCard(c *gin.Context, owner uint) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.Cards.Delete(c.Request.Context(), owner, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /v1/admin/cards?expirationDate=&page=&size=
func (s *Server) listCards(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}
	res, err := s.Cards.List(c.Request.Context(), repository.CardFilter{ExpirationDate: c.Query("expirationDate")}, page)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ToPage(&res, mapper.CardToResponse))
}

// GET /v1/admin/cards/:id
func (s *Server) getCard(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	card, err := s.Cards.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.CardToResponse(card))
}
