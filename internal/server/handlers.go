package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/bfhl/internal/bfhl"
	"github.com/edgard/bfhl/internal/database"
	apperrors "github.com/edgard/bfhl/internal/errors"
	"github.com/edgard/bfhl/internal/logger"
)

// auditTimeout bounds the write of one audit record.
const auditTimeout = 2 * time.Second

// handleHealth handles GET /health.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, Envelope{
		IsSuccess:     true,
		OfficialEmail: s.cfg.Identity.OfficialEmail,
	})
}

// handleBFHL handles POST /bfhl.
func (s *Server) handleBFHL(c *gin.Context) {
	startTime := time.Now()
	var op bfhl.Operation

	data, err := func() (any, error) {
		body, err := c.GetRawData()
		if err != nil {
			return nil, apperrors.NewPayloadError("failed to read request body", err)
		}

		req, err := bfhl.ParseRequest(body)
		if err != nil {
			return nil, err
		}
		op = req.Operation()

		ctx := c.Request.Context()
		if timeout := s.cfg.Server.WriteTimeout; timeout > 0 {
			// Nothing computed after the write deadline can reach the client.
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return s.dispatcher.Dispatch(ctx, req)
	}()

	status := apperrors.HTTPStatus(err)
	if err != nil {
		_ = c.Error(err)
		c.JSON(status, failure())
	} else {
		c.JSON(status, Envelope{
			IsSuccess:     true,
			OfficialEmail: s.cfg.Identity.OfficialEmail,
			Data:          data,
		})
	}

	s.audit(c, op, status, err, time.Since(startTime))
}

func (s *Server) audit(c *gin.Context, op bfhl.Operation, status int, err error, duration time.Duration) {
	if s.recorder == nil {
		return
	}

	record := &database.RequestRecord{
		RequestID:  logger.RequestID(c),
		Operation:  string(op),
		Status:     status,
		DurationMS: duration.Milliseconds(),
	}
	if err != nil {
		record.ErrorKind = string(apperrors.KindOf(err))
	}

	// The client may already be gone; the record is still written.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), auditTimeout)
	defer cancel()

	if saveErr := s.recorder.SaveRequest(ctx, record); saveErr != nil {
		s.log.WarnContext(ctx, "Failed to record request", "request_id", record.RequestID, "error", saveErr)
	}
}
