package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vivesbank/internal/dto"
	"vivesbank/internal/mapper"
	"vivesbank/internal/models"
)

// POST /v1/auth/signup
func (s *Server) signUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !bindValid(c, s.schemas.signup, &req) {
		return
	}
	token, err := s.Users.SignUp(c.Request.Context(), req.Username, req.Password, req.CheckPassword)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TokenResponse{Token: token})
}

// POST /v1/auth/signin
func (s *Server) signIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request")
		return
	}
	token, err := s.Users.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, dto.TokenResponse{Token: token})
}

// GET /v1/users/me
func (s *Server) me(c *gin.Context) {
	c.JSON(200, mapper.UserToResponse(currentUser(c)))
}

// PATCH /v1/users/me/profile-image
func (s *Server) uploadProfileImage(c *gin.Context) {
	user := currentUser(c)
	path, ok := s.saveUpload(c, "profile", user.GUUID)
	if !ok {
		return
	}
	updated, err := s.Users.SetProfileImage(c.Request.Context(), user.ID, path)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.UserToResponse(updated))
}

// GET /v1/admin/users
func (s *Server) listUsers(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}
	res, err := s.Users.List(c.Request.Context(), page)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(200, mapper.ToPage(&res, mapper.UserToResponse))
}

// DELETE /v1/admin/users/:guuid
func (s *Server) deleteUser(c *gin.Context) {
	if err := s.Users.Delete(c.Request.Context(), c.Param("guuid")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// saveUpload stores the multipart "file" field and returns its public path.
func (s *Server) saveUpload(c *gin.Context, folder, owner string) (string, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "no file provided")
		return "", false
	}
	f, err := header.Open()
	if err != nil {
		badRequest(c, "failed to read file")
		return "", false
	}
	defer f.Close()

	rel, err := s.Files.Save(folder, owner, header.Filename, header.Size, f)
	if err != nil {
		s.fail(c, err)
		return "", false
	}
	return "/uploads/" + rel, true
}

// callerClient resolves the signed-in user's client record.
func (s *Server) callerClient(c *gin.Context) (*models.Client, bool) {
	client, err := s.Clients.GetByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return client, true
}
