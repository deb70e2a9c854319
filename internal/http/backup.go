package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /v1/admin/backup/export
func (s *Server) exportBackup(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.Backup.WriteArchive(c.Request.Context(), &buf); err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("backup exported", "bytes", buf.Len())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="backup_%d.zip"`, time.Now().Unix()))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// GET /v1/admin/movements/export
func (s *Server) exportMovements(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.Backup.WriteMovements(c.Request.Context(), &buf); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="movements.json"`)
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}
