package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vivesbank/internal/bank"
	"vivesbank/internal/dto"
	"vivesbank/internal/mapper"
	"vivesbank/internal/models"
	"vivesbank/internal/repository"
)

// POST /v1/accounts
func (s *Server) createAccount(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	var req dto.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	acc, err := s.Accounts.Create(c.Request.Context(), client.ID, models.AccountType(strings.ToUpper(req.AccountType)))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.AccountToResponse(acc))
}

// GET /v1/accounts/me
func (s *Server) myAccounts(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	accounts, err := s.Accounts.ListByClient(c.Request.Context(), client.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, list(accounts, mapper.AccountToResponse))
}

// DELETE /v1/accounts/me/:iban
func (s *Server) deleteMyAccount(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	if err := s.Accounts.Delete(c.Request.Context(), client.ID, c.Param("iban")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /v1/accounts/:iban/movements is open to the owner and to admins.
func (s *Server) accountMovements(c *gin.Context) {
	ctx := c.Request.Context()
	iban := c.Param("iban")
	if !currentUser(c).HasRole(models.RoleAdmin) {
		client, ok := s.callerClient(c)
		if !ok {
			return
		}
		acc, err := s.Accounts.GetByIBAN(ctx, iban)
		if err != nil {
			s.fail(c, err)
			return
		}
		if acc.ClientID != client.ID {
			s.fail(c, bank.Errorf(bank.KindForbidden, "bank account %s does not belong to this client", iban))
			return
		}
	}
	movements, err := s.Movements.GetMovementsByAccount(ctx, iban)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, list(movements, mapper.MovementToResponse))
}

// GET /v1/admin/accounts?type=&clientId=&page=&size=
func (s *Server) listAccounts(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}
	f := repository.AccountFilter{AccountType: models.AccountType(strings.ToUpper(c.Query("type")))}
	if v := c.Query("clientId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			badRequest(c, "clientId must be a number")
			return
		}
		f.ClientID = uint(id)
	}
	res, err := s.Accounts.List(c.Request.Context(), f, page)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ToPage(&res, mapper.AccountToResponse))
}

// GET /v1/admin/accounts/:id
func (s *Server) getAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	acc, err := s.Accounts.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.AccountToResponse(acc))
}

// GET /v1/admin/accounts/iban/:iban
func (s *Server) getAccountByIBAN(c *gin.Context) {
	acc, err := s.Accounts.GetByIBAN(c.Request.Context(), c.Param("iban"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.AccountToResponse(acc))
}

// DELETE /v1/admin/accounts/:iban
func (s *Server) deleteAccount(c *gin.Context) {
	if err := s.Accounts.Delete(c.Request.Context(), 0, c.Param("iban")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
