package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vivesbank/internal/dto"
	"vivesbank/internal/mapper"
	"vivesbank/internal/models"
	"vivesbank/internal/report"
	"vivesbank/internal/repository"
	"vivesbank/internal/service"
)

// POST /v1/movements. The sender is the caller's client record.
func (s *Server) createMyMovement(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	var req dto.MovementRequest
	if !bindValid(c, s.schemas.movement, &req) {
		return
	}
	s.createMovement(c, client.GUUID, req)
}

// POST /v1/admin/movements
func (s *Server) createMovementAsAdmin(c *gin.Context) {
	var req dto.MovementRequest
	if !bindValid(c, s.schemas.movement, &req) {
		return
	}
	if req.SenderClientID == "" {
		badRequest(c, "senderClientId is required")
		return
	}
	s.createMovement(c, req.SenderClientID, req)
}

func (s *Server) createMovement(c *gin.Context, sender string, req dto.MovementRequest) {
	mv, err := s.Movements.CreateMovement(c.Request.Context(), service.CreateMovementInput{
		SenderClientID:    sender,
		RecipientClientID: req.RecipientClientID,
		OriginIBAN:        req.BankAccountOrigin,
		DestinationIBAN:   req.BankAccountDestination,
		TypeMovement:      req.TypeMovement,
		Amount:            req.Amount,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.Metrics.MovementCreated(mv.TypeMovement)
	c.JSON(http.StatusCreated, mapper.MovementToResponse(mv))
}

// POST /v1/movements/reverse
func (s *Server) reverseMyMovement(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	var req dto.ReversalRequest
	if !bindValid(c, s.schemas.reversal, &req) {
		return
	}
	mv, err := s.Movements.ReverseClientMovement(c.Request.Context(), client.GUUID, req.MovementID)
	s.reversed(c, mv, err)
}

// POST /v1/admin/movements/reverse
func (s *Server) reverseMovement(c *gin.Context) {
	var req dto.ReversalRequest
	if !bindValid(c, s.schemas.reversal, &req) {
		return
	}
	mv, err := s.Movements.ReverseMovement(c.Request.Context(), req.MovementID)
	s.reversed(c, mv, err)
}

func (s *Server) reversed(c *gin.Context, mv *models.Movement, err error) {
	if err != nil {
		s.fail(c, err)
		return
	}
	s.Metrics.MovementReversed()
	c.JSON(200, mapper.MovementToResponse(mv))
}

// GET /v1/movements/me
func (s *Server) myMovements(c *gin.Context) {
	s.clientLedger(c, s.Movements.GetMovementsByClientID)
}

// GET /v1/movements/me/sent
func (s *Server) mySentMovements(c *gin.Context) {
	s.clientLedger(c, s.Movements.GetSentMovements)
}

// GET /v1/movements/me/received
func (s *Server) myReceivedMovements(c *gin.Context) {
	s.clientLedger(c, s.Movements.GetReceivedMovements)
}

// GET /v1/movements/me/type/:type
func (s *Server) myMovementsByType(c *gin.Context) {
	typ := c.Param("type")
	s.clientLedger(c, func(ctx context.Context, clientID string) ([]models.Movement, error) {
		return s.Movements.GetMovementsByType(ctx, clientID, typ)
	})
}

type ledgerQuery func(ctx context.Context, clientID string) ([]models.Movement, error)

func (s *Server) clientLedger(c *gin.Context, query ledgerQuery) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	movements, err := query(c.Request.Context(), client.GUUID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, list(movements, mapper.MovementToResponse))
}

// GET /v1/admin/movements/client/:clientId
func (s *Server) clientMovements(c *gin.Context) {
	movements, err := s.Movements.GetMovementsByClientID(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, list(movements, mapper.MovementToResponse))
}

// GET /v1/admin/movements/:id
func (s *Server) getMovement(c *gin.Context) {
	mv, err := s.Movements.GetMovement(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.MovementToResponse(mv))
}

// GET /v1/admin/movements?type=&page=&size=
func (s *Server) listMovements(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}
	res, err := s.Movements.GetAllMovements(c.Request.Context(), c.Query("type"), page)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ToPage(&res, mapper.MovementToResponse))
}

// GET /v1/movements/me/pdf
func (s *Server) myStatementPDF(c *gin.Context) {
	s.clientStatement(c, "Movements", "movements.pdf", s.Movements.GetMovementsByClientID)
}

// GET /v1/movements/me/pdf/sent
func (s *Server) mySentStatementPDF(c *gin.Context) {
	s.clientStatement(c, "Sent movements", "movements-sent.pdf", s.Movements.GetSentMovements)
}

// GET /v1/movements/me/pdf/received
func (s *Server) myReceivedStatementPDF(c *gin.Context) {
	s.clientStatement(c, "Received movements", "movements-received.pdf", s.Movements.GetReceivedMovements)
}

func (s *Server) clientStatement(c *gin.Context, title, filename string, query ledgerQuery) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	movements, err := query(c.Request.Context(), client.GUUID)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.sendPDF(c, filename, func(w io.Writer) error {
		return report.WriteStatement(w, report.Statement{
			Title:     title,
			Holder:    client.FullName(),
			Generated: time.Now(),
			Movements: movements,
		})
	})
}

// GET /v1/movements/me/pdf/:id
func (s *Server) myMovementPDF(c *gin.Context) {
	client, ok := s.callerClient(c)
	if !ok {
		return
	}
	mv, err := s.Movements.GetClientMovement(c.Request.Context(), client.GUUID, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.sendPDF(c, "movement-"+mv.ID+".pdf", func(w io.Writer) error {
		return report.WriteMovement(w, mv, time.Now())
	})
}

// GET /v1/admin/movements/pdf
func (s *Server) ledgerPDF(c *gin.Context) {
	res, err := s.Movements.GetAllMovements(c.Request.Context(), c.Query("type"), repository.Page{})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.sendPDF(c, "ledger.pdf", func(w io.Writer) error {
		return report.WriteStatement(w, report.Statement{Title: "Ledger", Generated: time.Now(), Movements: res.Items})
	})
}

// GET /v1/admin/movements/:id/pdf
func (s *Server) movementPDF(c *gin.Context) {
	mv, err := s.Movements.GetMovement(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.sendPDF(c, "movement-"+mv.ID+".pdf", func(w io.Writer) error {
		return report.WriteMovement(w, mv, time.Now())
	})
}

// sendPDF renders into memory first so a render failure still gets a JSON error.
func (s *Server) sendPDF(c *gin.Context, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
